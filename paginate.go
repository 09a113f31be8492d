package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nextPageTitle is the exact title the listing puts on its pager links.
func nextPageTitle(page int) string {
	return fmt.Sprintf("go to page %d", page+1)
}

// NextPageURL re-fetches the listing at pageURL and looks for the link to
// page+1, page being the 1-based index of the page just scraped. The pager
// is rendered more than once, so the last matching anchor wins. ok is false
// when there is no further page; that is not an error.
func (s *Scraper) NextPageURL(ctx context.Context, pageURL string, page int) (next string, ok bool, err error) {
	doc, err := s.fetchListing(ctx, kindPagination, pageURL)
	if err != nil {
		return "", false, err
	}
	href, found := findNextPageHref(doc.Selection, page)
	if !found {
		return "", false, nil
	}
	next, err = s.resolveSiteURL(href)
	if err != nil {
		return "", false, err
	}
	return next, true, nil
}

func findNextPageHref(doc *goquery.Selection, page int) (string, bool) {
	want := nextPageTitle(page)
	href, found := "", false
	doc.Find("a[href][title]").Each(func(_ int, a *goquery.Selection) {
		if strings.TrimSpace(a.AttrOr("title", "")) != want {
			return
		}
		if h := strings.TrimSpace(a.AttrOr("href", "")); h != "" {
			href, found = h, true
		}
	})
	return href, found
}

// resolveSiteURL makes a pager href absolute against the configured site host.
func (s *Scraper) resolveSiteURL(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse pager link %q: %w", href, err)
	}
	return s.siteHost.ResolveReference(ref).String(), nil
}
