package shopify

import "github.com/shopscope/shopscope/pkg/whttp"

// Fetcher is the outbound HTTP surface the retriever depends on. It is
// satisfied by *whttp.Client and by test stubs.
type Fetcher interface {
	Get(url string, extra ...whttp.Header) (*whttp.Response, error)
}

// Variant is a purchasable variation of a product. Prices come from the
// endpoint as strings and are kept verbatim; numeric interpretation happens
// at summary time.
type Variant struct {
	Price string `json:"price"`
}

// Product mirrors a single entry of the public products.json listing.
// Fields are sourced verbatim from the endpoint and never mutated.
type Product struct {
	Title       string    `json:"title"`
	ProductType string    `json:"product_type"`
	Vendor      string    `json:"vendor"`
	Tags        []string  `json:"tags"`
	Variants    []Variant `json:"variants"`
}

// Collection is a title+handle pair from the public collections.json listing.
type Collection struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}
