// Package news fetches and normalizes recent articles from an RSS search feed.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
)

// Standard errors for invalid fetch input, checked before any network I/O
var (
	ErrEmptyTopic    = errors.New("topic must not be empty")
	ErrInvalidWindow = errors.New("window must cover at least one day")
)

const descriptionLimit = 300

// Article is one normalized feed entry. Articles live for the duration of a
// single tool call and are never persisted.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// FetchError reports a feed that could not be retrieved or parsed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher queries a Google-News-style RSS search endpoint.
type Fetcher struct {
	parser  *gofeed.Parser
	feedURL string
	locale  string
}

// NewFetcher creates a fetcher over the given search feed base URL. The locale
// is a pre-encoded query fragment (e.g. "hl=en-US&gl=US&ceid=US:en") appended
// to every request.
func NewFetcher(feedURL, locale string, timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &Fetcher{
		parser:  parser,
		feedURL: feedURL,
		locale:  locale,
	}
}

// Fetch returns the articles matching topic published within the last
// windowDays days, in feed order. The feed's own recency filter is
// approximate, so entries are filtered again client-side. Entries that are
// missing a title, link or parseable date are skipped individually rather
// than failing the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, topic string, windowDays int) ([]Article, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	if windowDays <= 0 {
		return nil, ErrInvalidWindow
	}

	feedURL := f.queryURL(topic, windowDays)
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	articles := make([]Article, 0, len(feed.Items))

	for _, item := range feed.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		if item.Title == "" || item.Link == "" || published == nil {
			log.Debug("skipping malformed feed entry", "title", item.Title, "link", item.Link)
			continue
		}
		if published.Before(cutoff) {
			continue
		}

		title, source := splitSource(item.Title)
		if source == "" {
			source = linkHost(item.Link)
		}

		articles = append(articles, Article{
			Title:       title,
			Link:        item.Link,
			Source:      source,
			Description: truncate(stripHTML(item.Description), descriptionLimit),
			PublishedAt: *published,
		})
	}

	log.Debug("fetched news feed", "topic", topic, "entries", len(feed.Items), "kept", len(articles))
	return articles, nil
}

// queryURL encodes the topic and recency hint the way the Google News search
// feed expects: q=intitle:<topic> when:<N>d plus the locale fragment.
func (f *Fetcher) queryURL(topic string, windowDays int) string {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("intitle:%s when:%dd", topic, windowDays))

	feedURL := f.feedURL + "?" + query.Encode()
	if f.locale != "" {
		feedURL += "&" + f.locale
	}
	return feedURL
}

// splitSource recovers the publisher from the "Title - Source" suffix Google
// News appends to entry titles. Returns an empty source when no suffix exists.
func splitSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func linkHost(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
