package snippet

import (
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Targeted practice defaults.
const (
	targetedWords      = 25
	targetedWeakFactor = 3.0
)

// Generator produces randomized practice text.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the current time.
func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Pick selects one snippet uniformly.
func (g *Generator) Pick(snippets []Snippet) Snippet {
	if len(snippets) == 0 {
		return Snippet{}
	}
	return snippets[g.rnd.Intn(len(snippets))]
}

// Targeted builds a practice line emphasizing the given weak keys. The
// vocabulary is tokenized from the available snippets so the drill
// stays in the flavor of what the user actually types; words
// containing weak keys are weighted up.
func (g *Generator) Targeted(snippets []Snippet, weakKeys []string) Snippet {
	words := vocabulary(snippets)
	if len(words) == 0 {
		return g.Pick(snippets)
	}
	weakSet := map[rune]struct{}{}
	for _, key := range weakKeys {
		for _, r := range key {
			weakSet[r] = struct{}{}
		}
	}

	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weak := 0
		for _, r := range word {
			if _, ok := weakSet[r]; ok {
				weak++
			}
		}
		w := 1.0 + float64(weak)*targetedWeakFactor
		weights[i] = w
		total += w
	}

	picked := make([]string, 0, targetedWords)
	for i := 0; i < targetedWords; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		picked = append(picked, words[idx])
	}
	lang := ""
	if len(snippets) > 0 {
		lang = snippets[0].Lang
	}
	return Snippet{Lang: lang, Text: strings.Join(picked, " ")}
}

// vocabulary extracts the unique words of the snippet texts, sorted
// for deterministic weighting.
func vocabulary(snippets []Snippet) []string {
	seen := map[string]struct{}{}
	for _, sn := range snippets {
		for _, word := range strings.FieldsFunc(sn.Text, func(r rune) bool {
			return unicode.IsSpace(r)
		}) {
			if word == "" {
				continue
			}
			seen[word] = struct{}{}
		}
	}
	words := make([]string, 0, len(seen))
	for word := range seen {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
