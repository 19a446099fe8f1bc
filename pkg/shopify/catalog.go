package shopify

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Fixed public endpoints exposed by Shopify storefronts.
const (
	metaPath        = "/meta.json"
	productsPath    = "/products.json"
	collectionsPath = "/collections.json"

	// PageSize is the per-page product limit; MaxPages bounds the catalog
	// sample. Pagination past MaxPages is intentionally not attempted.
	PageSize = 250
	MaxPages = 2
)

func isJSONResponse(statusCode int, contentType string) bool {
	return statusCode == 200 && strings.Contains(contentType, "json")
}

// FetchMeta retrieves the store metadata blob. The raw JSON is kept verbatim
// so the serialization layer can pass it through untouched. ok is false when
// the endpoint is missing, errors, or doesn't answer with JSON.
func FetchMeta(f Fetcher, base string) (meta string, ok bool) {
	res, err := f.Get(base + metaPath)
	if err != nil {
		return "", false
	}
	if !isJSONResponse(res.StatusCode, res.Header.Get("Content-Type")) {
		return "", false
	}
	if !gjson.Valid(res.Body) {
		return "", false
	}
	return res.Body, true
}

// FetchProducts walks the paginated products.json listing, accumulating up to
// MaxPages pages of PageSize products. It stops early on a non-JSON or
// non-200 page, an empty page, or a short page (the last one). A failed page
// is never retried; it is treated as the catalog boundary.
//
// The returned error is non-nil only when page 1 itself failed at the
// transport or decode level, so callers can tell "store exposes no catalog"
// apart from "endpoint errored before we saw any catalog".
func FetchProducts(f Fetcher, base string) ([]Product, error) {
	var products []Product
	for page := 1; page <= MaxPages; page++ {
		url := fmt.Sprintf("%s%s?limit=%d&page=%d", base, productsPath, PageSize, page)
		res, err := f.Get(url)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("products page 1: %w", err)
			}
			break
		}
		if !isJSONResponse(res.StatusCode, res.Header.Get("Content-Type")) {
			if page == 1 {
				return nil, fmt.Errorf("products page 1: unexpected response (status %d)", res.StatusCode)
			}
			break
		}

		batch := parseProducts(res.Body)
		if len(batch) == 0 {
			break
		}
		products = append(products, batch...)
		if len(batch) < PageSize {
			break
		}
	}
	return products, nil
}

func parseProducts(body string) []Product {
	var products []Product
	gjson.Get(body, "products").ForEach(func(_, p gjson.Result) bool {
		prod := Product{
			Title:       p.Get("title").Str,
			ProductType: p.Get("product_type").Str,
			Vendor:      p.Get("vendor").Str,
		}
		p.Get("tags").ForEach(func(_, tag gjson.Result) bool {
			prod.Tags = append(prod.Tags, tag.String())
			return true
		})
		p.Get("variants").ForEach(func(_, v gjson.Result) bool {
			prod.Variants = append(prod.Variants, Variant{Price: v.Get("price").String()})
			return true
		})
		products = append(products, prod)
		return true
	})
	return products
}

// FetchCollections retrieves the collections listing as title+handle pairs.
// Any failure yields an empty list; collections are enrichment, not a gate.
func FetchCollections(f Fetcher, base string) []Collection {
	res, err := f.Get(base + collectionsPath)
	if err != nil {
		return nil
	}
	if !isJSONResponse(res.StatusCode, res.Header.Get("Content-Type")) {
		return nil
	}

	var collections []Collection
	gjson.Get(res.Body, "collections").ForEach(func(_, c gjson.Result) bool {
		collections = append(collections, Collection{
			Title:  c.Get("title").Str,
			Handle: c.Get("handle").Str,
		})
		return true
	})
	return collections
}
