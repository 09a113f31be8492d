package main

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestFindNextPageHref(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		page     int
		wantHref string
		wantOK   bool
	}{
		{
			name: "no pager",
			html: listingPage(nil),
			page: 1,
		},
		{
			name: "only links to other pages",
			html: listingPage(nil, pagerLink("/p1", 1), pagerLink("/p3", 3)),
			page: 1,
		},
		{
			name:     "single match",
			html:     listingPage(nil, pagerLink("/p2", 2)),
			page:     1,
			wantHref: "/p2",
			wantOK:   true,
		},
		{
			name:     "last match wins",
			html:     `<html><body>` + pagerLink("/top", 3) + pagerLink("/bottom", 3) + `</body></html>`,
			page:     2,
			wantHref: "/bottom",
			wantOK:   true,
		},
		{
			name:     "page 20 is not page 2",
			html:     listingPage(nil, pagerLink("/p2", 2), pagerLink("/p20", 20)),
			page:     1,
			wantHref: "/p2",
			wantOK:   true,
		},
		{
			name: "anchor without href is ignored",
			html: `<html><body><a title="go to page 2">2</a></body></html>`,
			page: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			href, ok := findNextPageHref(parseDoc(t, tc.html), tc.page)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantHref, href)
		})
	}
}

func TestNextPageURL(t *testing.T) {
	up := newUpstream(t)
	up.pages["1"] = listingPage(nil, pagerLink("/results?page=2", 2))
	up.pages["2"] = listingPage(nil, pagerLink("/results?page=1", 1))
	s := newTestScraper(t, up.config(t))
	ctx := context.Background()

	next, ok, err := s.NextPageURL(ctx, up.URL+"/results?page=1", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, up.URL+"/results?page=2", next)

	next, ok, err = s.NextPageURL(ctx, next, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, next)
}

func TestResolveSiteURL_KeepsSemicolonQuery(t *testing.T) {
	up := newUpstream(t)
	cfg := up.config(t)
	cfg.SiteHost = "http://stats.espnscrum.com"
	s := newTestScraper(t, cfg)

	got, err := s.resolveSiteURL("/statsguru/rugby/stats/index.html?class=1;page=2;template=results")
	require.NoError(t, err)
	assert.Equal(t, "http://stats.espnscrum.com/statsguru/rugby/stats/index.html?class=1;page=2;template=results", got)
}

func TestNextPageURL_FetchError(t *testing.T) {
	up := newUpstream(t)
	s := newTestScraper(t, up.config(t))

	_, ok, err := s.NextPageURL(context.Background(), up.URL+"/results?page=9", 9)
	require.Error(t, err)
	assert.False(t, ok)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
