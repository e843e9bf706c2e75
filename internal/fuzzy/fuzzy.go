// Package fuzzy scores how similar two strings are on a 0-100 scale.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Weights applied to the token-based and partial strategies
const (
	unbaseScale       = 0.95
	partialScale      = 0.9
	shortPartialScale = 0.6

	partialLenRatio = 1.5
	longLenRatio    = 8.0
)

// WRatio returns a weighted similarity score between a and b.
//
// Both inputs are lowercased and stripped of punctuation. Strings of similar
// length are compared whole and by sorted/deduplicated tokens; when one is
// much longer, the best-matching window of the longer one is used instead,
// scaled down as the length gap grows.
func WRatio(a, b string) int {
	p1, p2 := Normalize(a), Normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	l1, l2 := runeLen(p1), runeLen(p2)
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	best := Ratio(p1, p2)
	if lenRatio < partialLenRatio {
		best = math.Max(best, tokenSortRatio(p1, p2)*unbaseScale)
		best = math.Max(best, tokenSetRatio(p1, p2, Ratio)*unbaseScale)
		return int(math.Round(best))
	}

	scale := partialScale
	if lenRatio >= longLenRatio {
		scale = shortPartialScale
	}
	best = math.Max(best, PartialRatio(p1, p2)*scale)
	best = math.Max(best, PartialRatio(sortTokens(p1), sortTokens(p2))*unbaseScale*scale)
	best = math.Max(best, tokenSetRatio(p1, p2, PartialRatio)*unbaseScale*scale)
	return int(math.Round(best))
}

// Ratio is the normalized edit similarity of a and b.
func Ratio(a, b string) float64 {
	la, lb := runeLen(a), runeLen(b)
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(max(la, lb)))
}

// PartialRatio is the best Ratio between the shorter string and any
// same-length window of the longer one.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Normalize lowercases s, turns every non letter/digit into a space and
// collapses runs of whitespace.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func tokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// tokenSetRatio compares the shared tokens against each side's shared+own
// tokens and keeps the best score.
func tokenSetRatio(a, b string, score func(string, string) float64) float64 {
	setA, setB := tokenSet(a), tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := score(withA, withB)
	if base != "" {
		best = math.Max(best, score(base, withA))
		best = math.Max(best, score(base, withB))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
