package classify

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// Embedder maps a text to a unit-normalized vector in a shared space.
// Implementations must be deterministic: the nearest-category selection, and
// with it the produced description, must be identical across runs on
// identical input.
type Embedder interface {
	Embed(text string) ([]float64, error)
}

const defaultDimensions = 256

var embedTokenRe = regexp.MustCompile(`[^a-z0-9]+`)

// HashEmbedder is a deterministic hashed bag-of-words sentence embedder:
// each token is FNV-hashed into a fixed-dimension signed vector and the sum
// is L2-normalized. It has no external model file and loads in no time,
// which keeps process startup and tests trivial. Stateless and safe for
// concurrent use.
type HashEmbedder struct {
	dim int
}

func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{dim: defaultDimensions}
}

func (e *HashEmbedder) Embed(text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	for _, tok := range embedTokenRe.Split(strings.ToLower(text), -1) {
		if tok == "" {
			continue
		}
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dim))
		if sum&(1<<63) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}
