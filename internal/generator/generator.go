// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"time"
	"unicode"
)

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// Source bundles a generator with a word list and decoration settings so it
// can serve as the capture machine's word source.
type Source struct {
	gen      *Generator
	words    []string
	capsPct  float64
	punctPct float64
	punctSet []rune
}

// NewSource builds a word source over the given list.
func NewSource(gen *Generator, words []string, capsPct, punctPct float64, punctSet []rune) *Source {
	return &Source{
		gen:      gen,
		words:    words,
		capsPct:  capsPct,
		punctPct: punctPct,
		punctSet: punctSet,
	}
}

// Words returns the next batch of n generated words.
func (s *Source) Words(n int) []string {
	return s.gen.Generate(s.words, n, s.capsPct, s.punctPct, s.punctSet)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
