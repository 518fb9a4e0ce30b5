package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	words := []string{"abc", "déjà", "def"}
	got := Filter(words, FilterForLang("en"))
	if len(got) != 2 || got[0] != "abc" || got[1] != "def" {
		t.Fatalf("unexpected filtered list: %v", got)
	}
}

func TestDefaultListUsable(t *testing.T) {
	words := Default()
	if len(words) < 100 {
		t.Fatalf("default list too small: %d", len(words))
	}
	keep := FilterForLang("en")
	for _, word := range words {
		if !keep(word) {
			t.Fatalf("default list word %q fails the english filter", word)
		}
	}
}
