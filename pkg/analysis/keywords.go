package analysis

import (
	"regexp"
	"sort"
	"strings"
)

const DefaultKeywordTopK = 15

// Boilerplate terms that show up on nearly every storefront landing page and
// carry no signal about what the store sells.
var keywordDenylist = []string{"cookie", "privacy", "policy", "login"}

var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "because": true, "been": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"for": true, "from": true, "get": true, "has": true, "have": true,
	"here": true, "how": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "just": true, "more": true,
	"most": true, "new": true, "no": true, "not": true, "now": true,
	"of": true, "on": true, "one": true, "only": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "shop": true,
	"so": true, "some": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "to": true, "up": true, "us": true,
	"was": true, "we": true, "were": true, "what": true, "when": true,
	"which": true, "will": true, "with": true, "you": true, "your": true,
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)
	wordSplitRe     = regexp.MustCompile(`[^A-Za-z0-9'-]+`)
)

type scoredTerm struct {
	term  string
	score float64
}

// ExtractKeywords mines salient one- and two-word terms from prose text.
// Scoring is a statistical frequency heuristic (lower score = more salient):
// a term's score is the inverse of its occurrence count, with multi-word
// terms boosted since a repeated phrase is a stronger signal than a repeated
// word. Output is lowercased, stripped of surrounding punctuation, filtered
// against the denylist, ordered by ascending score with lexicographic
// tie-breaking, and truncated to topK. Deterministic on identical input.
func ExtractKeywords(text string, topK int) []string {
	if topK <= 0 {
		topK = DefaultKeywordTopK
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	uniFreq := make(map[string]int)
	biFreq := make(map[string]int)

	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		var tokens []string
		for _, w := range wordSplitRe.Split(strings.ToLower(sentence), -1) {
			if w != "" {
				tokens = append(tokens, w)
			}
		}
		for i, tok := range tokens {
			if !stopWords[tok] {
				uniFreq[tok]++
				if i+1 < len(tokens) && !stopWords[tokens[i+1]] {
					biFreq[tok+" "+tokens[i+1]]++
				}
			}
		}
	}

	best := make(map[string]float64)
	for term, freq := range uniFreq {
		keep(best, term, 1.0/float64(freq))
	}
	for term, freq := range biFreq {
		// Two-word phrases count each occurrence double.
		keep(best, term, 1.0/float64(2*freq))
	}

	scored := make([]scoredTerm, 0, len(best))
	for term, score := range best {
		cleaned := cleanTerm(term)
		if cleaned == "" {
			continue
		}
		scored = append(scored, scoredTerm{term: cleaned, score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score < scored[j].score
		}
		return scored[i].term < scored[j].term
	})

	var out []string
	seen := make(map[string]bool)
	for _, st := range scored {
		if seen[st.term] {
			continue
		}
		seen[st.term] = true
		out = append(out, st.term)
		if len(out) == topK {
			break
		}
	}
	return out
}

func keep(best map[string]float64, term string, score float64) {
	if prev, ok := best[term]; !ok || score < prev {
		best[term] = score
	}
}

// cleanTerm normalizes a candidate and filters out junk: too-short terms and
// anything matching the boilerplate denylist.
func cleanTerm(term string) string {
	term = strings.ToLower(strings.Trim(term, " .,:;|/\\-"))
	if len(term) < 3 {
		return ""
	}
	for _, bad := range keywordDenylist {
		if strings.Contains(term, bad) {
			return ""
		}
	}
	return term
}
