package discovery

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// MatchThreshold is the worst per-field score that still counts as a match.
const MatchThreshold = 0.3

// exactMatchScore stands in for a zero score so a perfect field match does
// not zero out the weighted product.
const exactMatchScore = 2.220446049250313e-16

// Field weights for ranking.
const (
	WeightName        = 0.6
	WeightDescription = 0.3
	WeightCategory    = 0.1
)

type weightedField struct {
	weight float64
	value  func(domain.Product) string
}

var searchFields = []weightedField{
	{weight: WeightName, value: func(p domain.Product) string { return p.Name }},
	{weight: WeightDescription, value: func(p domain.Product) string { return p.Description }},
	{weight: WeightCategory, value: func(p domain.Product) string { return p.Category }},
}

// Match is a product retained by the fuzzy stage with its rank; lower is
// better.
type Match struct {
	Product domain.Product
	Score   float64
}

// Search keeps products with at least one field scoring within the match
// threshold and orders them best first. Ties keep input order. Blank text
// returns every product unscored.
func Search(products []domain.Product, text string) []Match {
	pattern := []rune(fold(strings.TrimSpace(text)))
	if len(pattern) == 0 {
		out := make([]Match, 0, len(products))
		for _, product := range products {
			out = append(out, Match{Product: product})
		}
		return out
	}

	out := make([]Match, 0)
	for _, product := range products {
		score, ok := scoreProduct(product, pattern)
		if ok {
			out = append(out, Match{Product: product, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

func scoreProduct(product domain.Product, pattern []rune) (float64, bool) {
	total := 1.0
	matched := false
	for _, field := range searchFields {
		score := FieldScore(field.value(product), pattern)
		if score > MatchThreshold {
			continue
		}
		matched = true
		if score == 0 {
			score = exactMatchScore
		}
		total *= math.Pow(score, field.weight)
	}
	return total, matched
}

// FieldScore is the fewest edits needed to turn pattern into some substring
// of text, divided by the pattern length. Zero is an exact substring match,
// one means nothing useful matched. pattern must already be case-folded.
func FieldScore(text string, pattern []rune) float64 {
	if len(pattern) == 0 {
		return 0
	}
	distance := substringDistance([]rune(fold(text)), pattern)
	score := float64(distance) / float64(len(pattern))
	if score > 1 {
		return 1
	}
	return score
}

// substringDistance runs Sellers' variant of Levenshtein distance: starting
// a match anywhere in text is free, so only edits inside the matched window
// are counted.
func substringDistance(text, pattern []rune) int {
	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)
	for i := 1; i <= len(pattern); i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, prev[j]+1, curr[j-1]+1)
		}
		prev, curr = curr, prev
	}
	best := prev[0]
	for _, d := range prev[1:] {
		best = min(best, d)
	}
	return best
}

func fold(s string) string {
	return cases.Fold().String(s)
}
