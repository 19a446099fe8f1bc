// Package classify assigns each store a retail category by embedding a
// composite text signal and the fixed category vocabulary into a shared
// vector space and picking the nearest category by cosine similarity.
package classify

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/shopscope/shopscope/pkg/domains"
	"github.com/shopscope/shopscope/pkg/profile"
)

// Categories is the fixed vocabulary. Order is significant: similarity ties
// resolve to the earliest entry, so reordering changes output.
var Categories = []string{
	"clothing", "footwear", "jewelry", "watches", "home decor",
	"furniture", "beauty products", "sports gear", "electronics",
	"food and beverages", "pet supplies", "toys and games",
	"art and prints", "outdoor equipment", "stationery",
}

// Classifier holds the embedder and the pre-embedded category vectors.
// Built once, read-only afterwards, safe for concurrent use.
type Classifier struct {
	emb     Embedder
	catVecs [][]float64
}

// New embeds the category vocabulary with the given embedder. This is the
// one-time, process-wide initialization; every subsequent Describe call
// shares the resulting table.
func New(emb Embedder) (*Classifier, error) {
	c := &Classifier{emb: emb, catVecs: make([][]float64, len(Categories))}
	for i, cat := range Categories {
		vec, err := emb.Embed(cat)
		if err != nil {
			return nil, fmt.Errorf("embedding category %q: %w", cat, err)
		}
		c.catVecs[i] = vec
	}
	return c, nil
}

// Describe produces the one-sentence store description. The display name is
// the shop name declared in the meta blob when present, otherwise the
// title-cased leading label of the domain. The composite signal concatenates
// keywords, top product types, top title terms, and top tags; when all of
// those are empty the literal "products" stands in.
func (c *Classifier) Describe(domain, meta string, summary *profile.CatalogSummary, keywords []string) (string, error) {
	name := gjson.Get(meta, "shop.name").Str
	if name == "" {
		name = titleCase(domains.RootLabel(domain))
	}

	parts := append([]string{}, keywords...)
	if summary != nil {
		for _, tc := range summary.ProductTypesTop {
			parts = append(parts, tc.Value)
		}
		parts = append(parts, summary.TitleTermsTop...)
		for _, tc := range summary.TagsTop {
			parts = append(parts, tc.Value)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		text = "products"
	}

	vec, err := c.emb.Embed(text)
	if err != nil {
		return "", fmt.Errorf("embedding store signal: %w", err)
	}

	best := 0
	bestSim := cosine(vec, c.catVecs[0])
	for i := 1; i < len(c.catVecs); i++ {
		// Strict comparison keeps the earliest category on ties.
		if sim := cosine(vec, c.catVecs[i]); sim > bestSim {
			best, bestSim = i, sim
		}
	}

	return fmt.Sprintf("%s sells %s and related products.", name, Categories[best]), nil
}

// cosine assumes unit-normalized inputs, so the dot product suffices.
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	// Decode the leading rune so multibyte labels stay valid UTF-8.
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
