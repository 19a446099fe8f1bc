// Package pipeline sequences the per-domain analysis: platform detection,
// catalog retrieval, text and keyword extraction, summarization, signal
// detection, and category classification. Domains are independent of each
// other; the only shared state is the read-only classifier.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopscope/shopscope/pkg/analysis"
	"github.com/shopscope/shopscope/pkg/profile"
	"github.com/shopscope/shopscope/pkg/shopify"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Describer is the classification surface the pipeline needs.
type Describer interface {
	Describe(domain, meta string, summary *profile.CatalogSummary, keywords []string) (string, error)
}

// Config holds everything Run needs.
type Config struct {
	Fetcher    shopify.Fetcher
	Classifier Describer
	// Concurrency is the worker count across domains; defaults to 5 if <= 0.
	// Within a single domain the catalog pagination stays sequential.
	Concurrency int
	Log         Logger // optional; nil = no logging

	// Now supplies capture timestamps; defaults to the wall clock. Tests
	// inject a fixed source to get byte-identical records.
	Now func() int64
}

// Run analyzes every domain and returns one StoreProfile per input domain
// that reached a terminal state, in input order. A single domain's failure
// never aborts the run. Cancelling ctx stops feeding new domains; domains
// already in flight finish normally.
func Run(ctx context.Context, cfg Config, domainList []string) []profile.StoreProfile {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	if cfg.Now == nil {
		cfg.Now = func() int64 { return time.Now().Unix() }
	}

	// Each worker writes only its own slots, so no locking is needed and
	// output order equals input order.
	results := make([]profile.StoreProfile, len(domainList))
	done := make([]bool, len(domainList))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = analyzeDomain(cfg, log, domainList[idx])
				done[idx] = true
			}
		}()
	}

feed:
	for i := range domainList {
		if ctx.Err() != nil {
			log.Warnf("run cancelled, %d domains not analyzed", len(domainList)-i)
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			log.Warnf("run cancelled, %d domains not analyzed", len(domainList)-i)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]profile.StoreProfile, 0, len(domainList))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	return out
}

// analyzeDomain walks a single domain through the pipeline states. Every
// sub-fetch failure past the homepage is absorbed into an absent or empty
// result; only a total homepage failure aborts with a fetch_error record.
func analyzeDomain(cfg Config, log Logger, domain string) profile.StoreProfile {
	base := "https://" + domain
	log.Infof("analyzing %s", domain)

	rec := profile.StoreProfile{
		Domain:    domain,
		Timestamp: cfg.Now(),
	}

	res, err := cfg.Fetcher.Get(base)
	if err != nil {
		log.Warnf("%s: homepage fetch failed: %v", domain, err)
		rec.Platform = profile.VerdictFetchError
		rec.Error = fmt.Sprintf("fetch_home_failed: %v", err)
		return rec
	}
	rec.PageTitle = res.Title

	if !shopify.Detect(res.Body, res.Header) {
		log.Debugf("%s: no shopify markers, skipping", domain)
		rec.Platform = profile.VerdictNotShopify
		return rec
	}

	meta, hasMeta := shopify.FetchMeta(cfg.Fetcher, base)
	products, perr := shopify.FetchProducts(cfg.Fetcher, base)
	collections := shopify.FetchCollections(cfg.Fetcher, base)

	// A store that passes the heuristic sniff but exposes no catalog is not
	// a qualifying store, whatever the homepage said. An endpoint error is
	// noted on the record so it stays distinguishable from a hidden catalog.
	if len(products) == 0 {
		log.Debugf("%s: no products.json data, skipping", domain)
		rec.Platform = profile.VerdictNotShopify
		if perr != nil {
			rec.Error = fmt.Sprintf("products_endpoint: %v", perr)
		}
		return rec
	}

	offerings := analysis.Summarize(products)
	prose := analysis.ExtractProse(res.Body)
	keywords := analysis.ExtractKeywords(prose, analysis.DefaultKeywordTopK)

	rec.Platform = profile.VerdictShopify
	if hasMeta {
		rec.Meta = []byte(meta)
	}
	if collections == nil {
		// Qualifying stores always report a collections list, even an empty
		// one. Only non-qualifying records omit the key entirely.
		collections = []shopify.Collection{}
	}
	rec.Collections = collections
	rec.Offerings = offerings
	rec.PriceSummary = analysis.SummarizePrices(products)
	rec.SocialLinks = analysis.ExtractSocialLinks(res.Body)
	rec.BuyWithPrime = analysis.DetectBuyWithPrime(res.Body)
	rec.Keywords = keywords

	description, derr := cfg.Classifier.Describe(domain, meta, offerings, keywords)
	if derr != nil {
		log.Errorf("%s: classification failed: %v", domain, derr)
		rec.Error = fmt.Sprintf("classification_failed: %v", derr)
		return rec
	}
	rec.Description = description

	return rec
}
