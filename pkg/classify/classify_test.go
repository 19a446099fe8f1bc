package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopscope/shopscope/pkg/profile"
)

// stubEmbedder returns canned vectors keyed by input text, a fixed fallback
// otherwise. Vectors are chosen pre-normalized.
type stubEmbedder struct {
	vectors  map[string][]float64
	fallback []float64
}

func (s *stubEmbedder) Embed(text string) ([]float64, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func TestDescribeTieBreakPrefersFirstCategory(t *testing.T) {
	// Every category embeds to the same vector, so every similarity ties.
	emb := &stubEmbedder{fallback: []float64{1, 0}}
	c, err := New(emb)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Describe("acme.com", "", nil, []string{"anything"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "sells "+Categories[0]+" ") {
		t.Fatalf("tie must resolve to the first category, got %q", got)
	}

	// Reproducible across calls.
	again, _ := c.Describe("acme.com", "", nil, []string{"anything"})
	if got != again {
		t.Fatalf("non-deterministic description: %q vs %q", got, again)
	}
}

func TestDescribeUsesMetaShopName(t *testing.T) {
	emb := &stubEmbedder{fallback: []float64{1, 0}}
	c, _ := New(emb)

	got, err := c.Describe("acme.com", `{"shop":{"name":"Acme Mug Co"}}`, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "Acme Mug Co sells ") {
		t.Fatalf("expected meta name, got %q", got)
	}
}

func TestDescribeFallsBackToDomainLabel(t *testing.T) {
	emb := &stubEmbedder{fallback: []float64{1, 0}}
	c, _ := New(emb)

	got, err := c.Describe("acme.co.uk", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "Acme sells ") {
		t.Fatalf("expected title-cased domain label, got %q", got)
	}
}

func TestDescribeTitleCasesMultibyteDomainLabel(t *testing.T) {
	emb := &stubEmbedder{fallback: []float64{1, 0}}
	c, _ := New(emb)

	got, err := c.Describe("ñandu.com", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("description is not valid UTF-8: %q", got)
	}
	if !strings.HasPrefix(got, "Ñandu sells ") {
		t.Fatalf("expected upper-cased leading rune, got %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"":      "",
		"acme":  "Acme",
		"ñandu": "Ñandu",
		"émile": "Émile",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribeSelectsNearestCategory(t *testing.T) {
	jewelry := "jewelry"
	emb := &stubEmbedder{
		vectors: map[string][]float64{
			jewelry:                     {0, 1},
			"silver rings silver rings": {0, 1},
		},
		fallback: []float64{1, 0},
	}
	c, err := New(emb)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Describe("rings.com", "", nil, []string{"silver rings silver rings"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "sells jewelry and related products.") {
		t.Fatalf("expected jewelry, got %q", got)
	}
}

func TestDescribeEmptySignalFallsBackToProducts(t *testing.T) {
	// The composite signal is empty, so the literal "products" is embedded.
	var embedded []string
	emb := &recordingEmbedder{record: &embedded}
	c, _ := New(emb)

	if _, err := c.Describe("acme.com", "", &profile.CatalogSummary{}, nil); err != nil {
		t.Fatal(err)
	}
	last := embedded[len(embedded)-1]
	if last != "products" {
		t.Fatalf("embedded %q, want the literal fallback", last)
	}
}

type recordingEmbedder struct {
	record *[]string
}

func (r *recordingEmbedder) Embed(text string) ([]float64, error) {
	*r.record = append(*r.record, text)
	return []float64{1, 0}, nil
}

func TestHashEmbedderDeterministicAndNormalized(t *testing.T) {
	e := NewHashEmbedder()
	a, _ := e.Embed("handmade ceramic mugs")
	b, _ := e.Embed("handmade ceramic mugs")

	var norm float64
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("embedder is not deterministic")
		}
		norm += a[i] * a[i]
	}
	if norm < 0.999 || norm > 1.001 {
		t.Fatalf("vector not unit-normalized: %v", norm)
	}
}

func TestHashEmbedderDistinguishesTexts(t *testing.T) {
	e := NewHashEmbedder()
	a, _ := e.Embed("clothing")
	b, _ := e.Embed("electronics")
	if cosine(a, b) > 0.999 {
		t.Fatal("distinct single tokens should not be identical vectors")
	}
}
