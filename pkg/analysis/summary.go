package analysis

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopscope/shopscope/pkg/profile"
	"github.com/shopscope/shopscope/pkg/shopify"
)

// Top-K bounds for the frequency tables.
const (
	topTypes         = 8
	topVendors       = 5
	topTags          = 10
	topTitleTerms    = 20
	maxExampleTitles = 8
)

var titleTokenRe = regexp.MustCompile(`[^a-z0-9+&'-]+`)

// topCounts returns the k most frequent non-empty items, ordered by
// descending count with ties broken by ascending key. Deterministic.
func topCounts(items []string, k int) []profile.TermCount {
	freq := make(map[string]int)
	for _, it := range items {
		if it != "" {
			freq[it]++
		}
	}

	out := make([]profile.TermCount, 0, len(freq))
	for v, c := range freq {
		out = append(out, profile.TermCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// titleTerms tokenizes product titles on non-alphanumeric boundaries
// (keeping + & ' - as internal characters), drops purely numeric tokens and
// tokens outside [3,20] characters, and returns the top-k most frequent
// words. A cheap proxy for salient vocabulary when no richer signal exists.
func titleTerms(titles []string, k int) []string {
	var words []string
	for _, t := range titles {
		for _, w := range titleTokenRe.Split(strings.ToLower(t), -1) {
			if len(w) < 3 || len(w) > 20 {
				continue
			}
			if isAllDigits(w) {
				continue
			}
			words = append(words, w)
		}
	}

	terms := topCounts(words, k)
	out := make([]string, 0, len(terms))
	for _, tc := range terms {
		out = append(out, tc.Value)
	}
	return out
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Summarize computes the frequency view over the sampled products: top
// product types, vendors, tags, salient title terms, and a handful of raw
// example titles.
func Summarize(products []shopify.Product) *profile.CatalogSummary {
	var types, vendors, tags, titles []string
	for _, p := range products {
		types = append(types, strings.TrimSpace(p.ProductType))
		vendors = append(vendors, strings.TrimSpace(p.Vendor))
		tags = append(tags, p.Tags...)
		titles = append(titles, p.Title)
	}

	examples := titles
	if len(examples) > maxExampleTitles {
		examples = examples[:maxExampleTitles]
	}

	return &profile.CatalogSummary{
		ProductTypesTop:      topCounts(types, topTypes),
		VendorsTop:           topCounts(vendors, topVendors),
		TagsTop:              topCounts(tags, topTags),
		TitleTermsTop:        titleTerms(titles, topTitleTerms),
		TotalProductsSampled: len(products),
		ExampleTitles:        examples,
	}
}

// SummarizePrices flattens every variant price across every product,
// discarding non-numeric and non-positive values. A nil result means no valid
// price was observed, which callers must keep distinct from zero prices.
func SummarizePrices(products []shopify.Product) *profile.PriceSummary {
	var prices []float64
	for _, p := range products {
		for _, v := range p.Variants {
			val, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
			if err != nil || val <= 0 {
				continue
			}
			prices = append(prices, val)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	min, max, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}

	return &profile.PriceSummary{
		MinPrice:  min,
		MaxPrice:  max,
		AvgPrice:  math.Round(sum/float64(len(prices))*100) / 100,
		NumPrices: len(prices),
	}
}
