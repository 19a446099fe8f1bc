// Package domains loads and normalizes the domain lists the crawler works
// through. A domain list file has one domain per line; blank lines and lines
// starting with '#' are skipped.
package domains

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// Normalize strips a leading http(s) scheme, any path, a trailing slash and
// surrounding whitespace, and lowercases the result. It returns "" for lines
// that hold no domain at all.
func Normalize(raw string) string {
	d := strings.TrimSpace(raw)
	if d == "" {
		return ""
	}
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return strings.ToLower(strings.TrimSpace(d))
}

// Load reads a domain list file, skipping comments and blank lines, and
// returns the normalized domains in file order.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open domain list: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if d := Normalize(line); d != "" {
			out = append(out, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read domain list: %w", err)
	}
	return out, nil
}

// RootLabel returns the leading label of the registrable domain, e.g.
// "shop.example.co.uk" -> "example". Used for store display names when the
// shop metadata carries none. Falls back to the first label when the public
// suffix list can't parse the host.
func RootLabel(domain string) string {
	host := Normalize(domain)
	if host == "" {
		return ""
	}
	if root, err := publicsuffix.Domain(host); err == nil {
		host = root
	}
	return strings.SplitN(host, ".", 2)[0]
}
