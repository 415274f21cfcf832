package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio scores two strings in [0,100] by normalized edit distance. Equal
// non-empty strings score 100; an empty side scores 0 against anything
// non-empty.
func Ratio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 100 * (1 - float64(dist)/float64(longest))
}

// TokenSetRatio scores two names in [0,100], insensitive to token order
// and robust to one side carrying extra tokens: the names are split into
// token sets and rescored after aligning the shared tokens, and the best
// of those alignments and the plain full-string ratio wins. A name whose
// tokens are a subset of the other's scores 100; disjoint token sets
// score near 0.
func TokenSetRatio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for _, tok := range setA {
		if contains(setB, tok) {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for _, tok := range setB {
		if !contains(setA, tok) {
			onlyB = append(onlyB, tok)
		}
	}

	// One token set containing the other is as good as equality.
	if len(shared) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sharedStr := strings.Join(shared, " ")
	combA := joinNonEmpty(sharedStr, strings.Join(onlyA, " "))
	combB := joinNonEmpty(sharedStr, strings.Join(onlyB, " "))

	best := Ratio(a, b)
	for _, score := range []float64{
		Ratio(sharedStr, combA),
		Ratio(sharedStr, combB),
		Ratio(combA, combB),
	} {
		if score > best {
			best = score
		}
	}
	return best
}

// tokenSet returns the sorted distinct whitespace-delimited tokens.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	var tokens []string
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	return tokens
}

func contains(sorted []string, tok string) bool {
	i := sort.SearchStrings(sorted, tok)
	return i < len(sorted) && sorted[i] == tok
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
