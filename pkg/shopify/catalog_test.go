package shopify

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopscope/shopscope/pkg/whttp"
)

// stubFetcher serves canned responses keyed by URL and records every request.
type stubFetcher struct {
	responses map[string]*whttp.Response
	errors    map[string]error
	requested []string
}

func (s *stubFetcher) Get(url string, _ ...whttp.Header) (*whttp.Response, error) {
	s.requested = append(s.requested, url)
	if err, ok := s.errors[url]; ok {
		return nil, err
	}
	if res, ok := s.responses[url]; ok {
		return res, nil
	}
	return &whttp.Response{StatusCode: 404, Header: http.Header{}, Body: "not found"}, nil
}

func jsonResponse(body string) *whttp.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")
	return &whttp.Response{StatusCode: 200, Header: h, Body: body}
}

func productsPage(n int) string {
	var b strings.Builder
	b.WriteString(`{"products":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"title":"Item %d","product_type":"Mugs","vendor":"Acme","tags":["ceramic"],"variants":[{"price":"12.50"}]}`, i)
	}
	b.WriteString(`]}`)
	return b.String()
}

func productsURL(base string, page int) string {
	return fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, PageSize, page)
}

func TestFetchProductsStopsOnEmptyPage(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{responses: map[string]*whttp.Response{
		productsURL(base, 1): jsonResponse(productsPage(PageSize)),
		productsURL(base, 2): jsonResponse(`{"products":[]}`),
	}}

	got, err := FetchProducts(f, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != PageSize {
		t.Fatalf("got %d products, want %d", len(got), PageSize)
	}
	if len(f.requested) != 2 {
		t.Fatalf("requested %d pages, want 2: %v", len(f.requested), f.requested)
	}
}

func TestFetchProductsStopsAfterShortPage(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{responses: map[string]*whttp.Response{
		productsURL(base, 1): jsonResponse(productsPage(3)),
	}}

	got, err := FetchProducts(f, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d products, want 3", len(got))
	}
	if len(f.requested) != 1 {
		t.Fatalf("short page must end pagination, requested: %v", f.requested)
	}
}

func TestFetchProductsErrorOnFirstPage(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{errors: map[string]error{
		productsURL(base, 1): errors.New("connection refused"),
	}}

	if _, err := FetchProducts(f, base); err == nil {
		t.Fatal("expected an error when page 1 fails")
	}
}

func TestFetchProductsNonJSONFirstPage(t *testing.T) {
	base := "https://store.test"
	h := http.Header{}
	h.Set("Content-Type", "text/html")
	f := &stubFetcher{responses: map[string]*whttp.Response{
		productsURL(base, 1): {StatusCode: 200, Header: h, Body: "<html>catalog disabled</html>"},
	}}

	if _, err := FetchProducts(f, base); err == nil {
		t.Fatal("expected an error for a non-JSON first page")
	}
}

func TestFetchProductsSecondPageFailureKeepsFirstPage(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{
		responses: map[string]*whttp.Response{
			productsURL(base, 1): jsonResponse(productsPage(PageSize)),
		},
		errors: map[string]error{
			productsURL(base, 2): errors.New("timeout"),
		},
	}

	got, err := FetchProducts(f, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != PageSize {
		t.Fatalf("got %d products, want %d", len(got), PageSize)
	}
}

func TestFetchProductsParsesFields(t *testing.T) {
	base := "https://store.test"
	body := `{"products":[{"title":"Blue Mug","product_type":"Mugs","vendor":"Acme","tags":["ceramic","blue"],"variants":[{"price":"12.50"},{"price":"14.00"}]}]}`
	f := &stubFetcher{responses: map[string]*whttp.Response{
		productsURL(base, 1): jsonResponse(body),
	}}

	got, err := FetchProducts(f, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d products", len(got))
	}
	p := got[0]
	if p.Title != "Blue Mug" || p.ProductType != "Mugs" || p.Vendor != "Acme" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "ceramic" {
		t.Fatalf("unexpected tags: %v", p.Tags)
	}
	if len(p.Variants) != 2 || p.Variants[1].Price != "14.00" {
		t.Fatalf("unexpected variants: %v", p.Variants)
	}
}

func TestFetchMeta(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{responses: map[string]*whttp.Response{
		base + "/meta.json": jsonResponse(`{"shop":{"name":"Acme Mugs"}}`),
	}}

	meta, ok := FetchMeta(f, base)
	if !ok {
		t.Fatal("expected meta to be present")
	}
	if !strings.Contains(meta, "Acme Mugs") {
		t.Fatalf("meta not kept verbatim: %q", meta)
	}
}

func TestFetchMetaNonJSON(t *testing.T) {
	base := "https://store.test"
	h := http.Header{}
	h.Set("Content-Type", "text/html")
	f := &stubFetcher{responses: map[string]*whttp.Response{
		base + "/meta.json": {StatusCode: 200, Header: h, Body: "<html></html>"},
	}}

	if _, ok := FetchMeta(f, base); ok {
		t.Fatal("non-JSON meta must be treated as absent")
	}
}

func TestFetchCollections(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{responses: map[string]*whttp.Response{
		base + "/collections.json": jsonResponse(`{"collections":[{"title":"Summer","handle":"summer"},{"title":"Sale","handle":"sale"}]}`),
	}}

	got := FetchCollections(f, base)
	if len(got) != 2 {
		t.Fatalf("got %d collections", len(got))
	}
	if got[0].Title != "Summer" || got[1].Handle != "sale" {
		t.Fatalf("unexpected collections: %+v", got)
	}
}

func TestFetchCollectionsFailureYieldsEmpty(t *testing.T) {
	base := "https://store.test"
	f := &stubFetcher{errors: map[string]error{
		base + "/collections.json": errors.New("timeout"),
	}}

	if got := FetchCollections(f, base); got != nil {
		t.Fatalf("expected nil collections, got %v", got)
	}
}
