package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Listing is one restaurant scraped from a page
type Listing struct {
	Name    string
	Cuisine string
	Rating  *float64
	Address string
	Website string
	Tags    []string
}

// Source produces restaurant listings
type Source interface {
	Listings(ctx context.Context) ([]Listing, error)
	Name() string
}

// Selectors locate listing fields. Item is required; the others are
// searched inside each item and skipped when empty.
type Selectors struct {
	Item    string
	Name    string
	Cuisine string
	Rating  string
	Address string
	Tags    string
}

// HTMLSource scrapes listings from a single page
type HTMLSource struct {
	url       string
	selectors Selectors
	fetcher   *Fetcher
	log       *zap.Logger
}

// NewHTMLSource creates a source for pageURL
func NewHTMLSource(pageURL string, selectors Selectors, fetcher *Fetcher, log *zap.Logger) *HTMLSource {
	return &HTMLSource{
		url:       pageURL,
		selectors: selectors,
		fetcher:   fetcher,
		log:       log.Named("html-source"),
	}
}

// Name returns the page URL
func (s *HTMLSource) Name() string {
	return s.url
}

// Listings fetches and parses the page
func (s *HTMLSource) Listings(ctx context.Context) ([]Listing, error) {
	s.log.Info("Fetching listings", zap.String("url", s.url))

	content, err := s.fetcher.FetchURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}

	listings, err := ParseListings(bytes.NewReader(content), s.url, s.selectors)
	if err != nil {
		return nil, err
	}

	s.log.Info("Parsed listings", zap.String("url", s.url), zap.Int("listings", len(listings)))
	return listings, nil
}

// ParseListings extracts listings from an HTML document. Relative links
// resolve against pageURL.
func ParseListings(r io.Reader, pageURL string, sel Selectors) ([]Listing, error) {
	if sel.Item == "" {
		return nil, fmt.Errorf("item selector is required")
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, _ := url.Parse(pageURL)

	var listings []Listing
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		name := text(item, sel.Name)
		if name == "" {
			return
		}

		listing := Listing{
			Name:    name,
			Cuisine: text(item, sel.Cuisine),
			Rating:  parseRating(text(item, sel.Rating)),
			Address: text(item, sel.Address),
			Website: link(item, base),
		}
		if sel.Tags != "" {
			item.Find(sel.Tags).Each(func(_ int, tag *goquery.Selection) {
				listing.Tags = append(listing.Tags, strings.TrimSpace(tag.Text()))
			})
		}
		listings = append(listings, listing)
	})

	return listings, nil
}

func text(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(item.Find(selector).First().Text()), " ")
}

// link returns the first anchor of item as an absolute URL
func link(item *goquery.Selection, base *url.URL) string {
	href, exists := item.Find("a[href]").First().Attr("href")
	if !exists || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

var ratingRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// parseRating reads the first number in s. Values outside 0-5 are dropped.
func parseRating(s string) *float64 {
	match := ratingRegex.FindString(s)
	if match == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil || rating < 0 || rating > 5 {
		return nil
	}
	return &rating
}
