package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestGenerateCountAndMembership(t *testing.T) {
	gen := New()
	words := []string{"alpha", "beta", "gamma"}
	got := gen.Generate(words, 50, 0, 0, nil)
	if len(got) != 50 {
		t.Fatalf("expected 50 words, got %d", len(got))
	}
	allowed := map[string]struct{}{}
	for _, w := range words {
		allowed[w] = struct{}{}
	}
	for _, w := range got {
		if _, ok := allowed[w]; !ok {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestGenerateAlwaysCaps(t *testing.T) {
	gen := New()
	got := gen.Generate([]string{"word"}, 20, 1, 0, nil)
	for _, w := range got {
		if !unicode.IsUpper([]rune(w)[0]) {
			t.Fatalf("expected capitalized word, got %q", w)
		}
	}
}

func TestGenerateAlwaysPunct(t *testing.T) {
	gen := New()
	punct := []rune{'.', '!'}
	got := gen.Generate([]string{"word"}, 20, 0, 1, punct)
	for _, w := range got {
		last := w[len(w)-1]
		if last != '.' && last != '!' {
			t.Fatalf("expected trailing punctuation, got %q", w)
		}
	}
}

func TestSourceProducesBatches(t *testing.T) {
	src := NewSource(New(), []string{"one", "two"}, 0, 0, nil)
	batch := src.Words(5)
	if len(batch) != 5 {
		t.Fatalf("expected 5 words, got %d", len(batch))
	}
	joined := strings.Join(batch, " ")
	if strings.TrimSpace(joined) == "" {
		t.Fatalf("batch is empty")
	}
}
