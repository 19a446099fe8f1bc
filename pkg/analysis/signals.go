package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// socialPlatform pairs the output key with the host its profile URLs live on.
// The "x.com" key is kept alongside "twitter" since storefronts link both.
type socialPlatform struct {
	name string
	host string
}

var socialPlatforms = []socialPlatform{
	{"instagram", "instagram.com"},
	{"facebook", "facebook.com"},
	{"tiktok", "tiktok.com"},
	{"youtube", "youtube.com"},
	{"twitter", "twitter.com"},
	{"x.com", "x.com"},
}

var socialRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(socialPlatforms))
	for _, p := range socialPlatforms {
		res[p.name] = regexp.MustCompile(`(?i)https?://(?:www\.)?` + regexp.QuoteMeta(p.host) + `/[A-Za-z0-9_.\-/%]+`)
	}
	return res
}()

// ExtractSocialLinks scans page markup for social profile URLs. Matches are
// deduplicated per platform and sorted so identical input always yields an
// identical map; platforms with no match are omitted entirely.
func ExtractSocialLinks(htmlStr string) map[string][]string {
	socials := make(map[string][]string)
	for _, p := range socialPlatforms {
		matches := socialRes[p.name].FindAllString(htmlStr, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]bool)
		var unique []string
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				unique = append(unique, m)
			}
		}
		sort.Strings(unique)
		socials[p.name] = unique
	}
	if len(socials) == 0 {
		return nil
	}
	return socials
}

// Literal markers of a Buy with Prime checkout integration: script
// filenames, data attributes, and vendor domain fragments.
var buyWithPrimeIndicators = []string{
	"buywithprime.amazon",
	"buy-with-prime",
	"bwp.js",
	"bwp-client",
	"data-bwp",
	"amazonpay",
}

// DetectBuyWithPrime reports whether any integration marker appears in the
// page markup. Purely syntactic.
func DetectBuyWithPrime(htmlStr string) bool {
	low := strings.ToLower(htmlStr)
	for _, token := range buyWithPrimeIndicators {
		if strings.Contains(low, token) {
			return true
		}
	}
	return false
}
