// Package fetch retrieves full article bodies from news URLs. Extraction is
// best effort: a readability pass first, then structural heuristics, then
// raw body text. A failed fetch yields empty content, never an error.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// containerSelectors are tried in priority order before falling back to
// paragraph-level extraction.
var containerSelectors = []string{
	"article",
	"main",
	"div.article",
	"div.content",
	"div.post",
	"div.entry",
	"div#content",
	"div#article",
}

var whitespaceRe = regexp.MustCompile(`\s+`)
var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Fetcher downloads and extracts plain-text article bodies.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	blocked        map[string]struct{}
	minSentenceLen int
	cache          *gocache.Cache
}

// Options configures a Fetcher.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	BlockedDomains []string
	MinSentenceLen int
	Transport      http.RoundTripper
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MinSentenceLen <= 0 {
		opts.MinSentenceLen = 10
	}
	blocked := make(map[string]struct{}, len(opts.BlockedDomains))
	for _, d := range opts.BlockedDomains {
		blocked[strings.ToLower(d)] = struct{}{}
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		userAgent:      opts.UserAgent,
		blocked:        blocked,
		minSentenceLen: opts.MinSentenceLen,
		cache:          gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// Blocked reports whether the URL's domain is on the static blocklist of
// sites known to refuse scraping bots.
func (f *Fetcher) Blocked(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if _, ok := f.blocked[host]; ok {
		return true
	}
	// Also match registered domain for www-style hosts.
	for d := range f.blocked {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Fetch retrieves the article body at rawURL. It returns "" for blocked
// domains, non-2xx responses, network failures, and pages with no
// extractable content; it never returns an error to the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) string {
	if f.Blocked(rawURL) {
		log.Warn().Str("url", rawURL).Msg("Skipping known blocked domain")
		return ""
	}

	if cached, ok := f.cache.Get(rawURL); ok {
		return cached.(string)
	}

	content := f.fetch(ctx, rawURL)
	f.cache.Set(rawURL, content, gocache.DefaultExpiration)
	return content
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Failed to build article request")
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Article fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("url", rawURL).Msg("Article fetch returned non-2xx")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Failed to parse article HTML")
		return ""
	}

	// Drop script/style/comment noise before any extraction attempt.
	doc.Find("script, style, noscript").Remove()

	raw := f.extract(doc, rawURL)
	return f.normalize(raw)
}

// extract tries progressively cruder strategies until one yields text.
func (f *Fetcher) extract(doc *goquery.Document, rawURL string) string {
	// Pass 1: readability on the cleaned document.
	if htmlStr, err := doc.Html(); err == nil {
		if parsed, err := url.Parse(rawURL); err == nil {
			article, err := readability.FromReader(strings.NewReader(htmlStr), parsed)
			if err == nil && strings.TrimSpace(article.TextContent) != "" {
				return article.TextContent
			}
		}
	}

	// Pass 2: known content containers.
	for _, sel := range containerSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := strings.TrimSpace(node.Text()); text != "" {
				return text
			}
		}
	}

	// Pass 3: concatenated paragraphs.
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}

	// Pass 4: whole body text.
	if body := doc.Find("body").First(); body.Length() > 0 {
		return bodyText(body)
	}
	return ""
}

// normalize collapses whitespace, drops fragments shorter than the minimum
// sentence length, and rejoins the remainder into one string.
func (f *Fetcher) normalize(raw string) string {
	collapsed := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	if collapsed == "" {
		return ""
	}

	var sentences []string
	for _, s := range sentenceSplitRe.Split(collapsed, -1) {
		s = strings.TrimSpace(s)
		if len(s) > f.minSentenceLen {
			sentences = append(sentences, s)
		}
	}
	return strings.Join(sentences, ". ")
}

// bodyText walks the node tree collecting text, for pages where even
// paragraph extraction found nothing.
func bodyText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		collectText(node, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
