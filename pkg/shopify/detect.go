package shopify

import (
	"net/http"
	"strings"
)

// A detection check inspects the lowercased homepage body and the response
// headers. No single check is authoritative; Detect ORs them together.
type detectionCheck struct {
	name  string
	match func(lowBody string, header http.Header) bool
}

var detectionChecks = []detectionCheck{
	{
		name: "shopify-cdn-host",
		match: func(low string, _ http.Header) bool {
			return strings.Contains(low, "cdn.shopify.com")
		},
	},
	{
		name: "shopify-features-flag",
		match: func(low string, _ http.Header) bool {
			return strings.Contains(low, "shopify-features")
		},
	},
	{
		name: "shopify-response-header",
		match: func(_ string, header http.Header) bool {
			for k := range header {
				if strings.Contains(strings.ToLower(k), "shopify") {
					return true
				}
			}
			return false
		},
	},
	{
		// Weakest signal: standard storefront routing.
		name: "cart-and-product-routes",
		match: func(low string, _ http.Header) bool {
			return strings.Contains(low, "/cart") && strings.Contains(low, "/products/")
		},
	},
}

// Detect reports whether a homepage response looks like a Shopify storefront.
// This is a disjunctive heuristic, not a certainty test: themes that strip
// every marker produce false negatives, and non-Shopify shops that imitate
// the routing produce false positives. The catalog fetch is the real gate.
func Detect(body string, header http.Header) bool {
	low := strings.ToLower(body)
	for _, c := range detectionChecks {
		if c.match(low, header) {
			return true
		}
	}
	return false
}
