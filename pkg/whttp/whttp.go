// Package whttp is the single entry point for outbound HTTP GET requests.
// Every fetch carries the crawler's identifying User-Agent and an Accept
// header covering JSON and HTML, follows redirects, and is bounded by a fixed
// timeout. There are no retries: a failed attempt is surfaced to the caller.
package whttp

import (
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

const (
	UserAgent      = "shopscope/1.0 (+https://github.com/shopscope/shopscope)"
	DefaultTimeout = 15 * time.Second
)

type Header struct {
	Name  string
	Value string
}

// Response is the outcome of a single GET. The body is fully read and owned
// by the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
	Title      string // HTML <title>, when the body parses as HTML
	Length     int
}

// Client wraps retryablehttp's client plumbing with retries disabled.
type Client struct {
	hc *http.Client
}

// NewClient builds a client with the given timeout (DefaultTimeout if zero).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout
	return &Client{hc: rc.StandardClient()}
}

// Get performs a single GET against url. Redirects are followed
// transparently. extra headers override nothing; they are added on top of the
// fixed identification headers.
func (c *Client) Get(url string, extra ...Header) (*Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json, text/html")
	req.Header.Set("Accept-Language", "en")

	for _, h := range extra {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(bodyBytes),
	}

	if title, ok := getHTMLTitle(res.Body); ok {
		res.Title = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}

	res.Length = utf8.RuneCountInString(res.Body)
	return res, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}

	return traverse(doc)
}
