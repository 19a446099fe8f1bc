// Package profile defines the per-domain result record the pipeline
// assembles and every outer layer consumes verbatim.
package profile

import (
	"encoding/json"

	"github.com/shopscope/shopscope/pkg/shopify"
)

// Verdict values for the platform field of a StoreProfile.
const (
	VerdictShopify    = "shopify"
	VerdictNotShopify = "not_shopify"
	VerdictFetchError = "fetch_error"
)

// TermCount is a frequency-table entry. Top-K lists are ordered by
// descending count, ties broken by ascending term, so identical input always
// serializes identically.
type TermCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CatalogSummary is the frequency view over a store's sampled products.
type CatalogSummary struct {
	ProductTypesTop      []TermCount `json:"product_types_top"`
	VendorsTop           []TermCount `json:"vendors_top"`
	TagsTop              []TermCount `json:"tags_top"`
	TitleTermsTop        []string    `json:"title_terms_top"`
	TotalProductsSampled int         `json:"total_products_sampled"`
	ExampleTitles        []string    `json:"example_titles"`
}

// PriceSummary aggregates the strictly-positive variant prices observed.
// A nil *PriceSummary means no valid price existed, which is distinct from a
// store whose prices were all zero.
type PriceSummary struct {
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
	NumPrices int     `json:"num_prices"`
}

// StoreProfile is the final per-domain record. It is created once per domain
// per run and never mutated after assembly.
type StoreProfile struct {
	Domain       string               `json:"domain"`
	Platform     string               `json:"platform"`
	PageTitle    string               `json:"page_title,omitempty"`
	Meta         json.RawMessage      `json:"meta,omitempty"`
	Description  string               `json:"description,omitempty"`
	Collections  []shopify.Collection `json:"collections,omitzero"`
	Offerings    *CatalogSummary      `json:"offerings,omitempty"`
	PriceSummary *PriceSummary        `json:"price_summary,omitempty"`
	SocialLinks  map[string][]string  `json:"social_links,omitempty"`
	BuyWithPrime bool                 `json:"buy_with_prime"`
	Keywords     []string             `json:"landing_keywords,omitempty"`
	Error        string               `json:"error,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// Qualifying reports whether the profile describes a confirmed storefront
// with at least one catalog product.
func (p *StoreProfile) Qualifying() bool {
	return p.Platform == VerdictShopify
}
