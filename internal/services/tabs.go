// Ultimate Guitar [TabResolver] implementation
//
// Drives a headless Chrome session via chromedp. The tab site redirects
// searches with a single confident hit to the tab page itself; otherwise the
// session stays on the search results page and that URL is returned as-is.
package services

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

const tabSearchBaseURL = "https://www.ultimate-guitar.com/search.php?search_type=title&value="

// TabSearchURL builds the tab-site search URL for a title and artist.
//
// The combined query is percent-encoded (spaces become '+').
func TabSearchURL(title, artist string) string {
	return tabSearchBaseURL + url.QueryEscape(title+" "+artist)
}

// ChromeTabResolver implements [TabResolver] with a per-call headless Chrome session.
//
// Sessions are never reused: each call launches an isolated browser and tears
// it down on every exit path, including navigation failure and context
// cancellation, so no browser process can outlive its request.
type ChromeTabResolver struct {
	logger *log.Logger
}

// NewChromeTabResolver creates a new browser-backed tab resolver.
func NewChromeTabResolver(logger *log.Logger) *ChromeTabResolver {
	return &ChromeTabResolver{logger: logger}
}

// Name returns the service name.
func (r *ChromeTabResolver) Name() string {
	return "Ultimate Guitar"
}

// ResolveTab navigates a headless browser to the tab-site search and returns
// whatever URL the session lands on once navigation settles.
//
// Every internal fault degrades to returning the search URL; callers never
// see an error from this resolver.
func (r *ChromeTabResolver) ResolveTab(ctx context.Context, title, artist string) string {
	searchURL := TabSearchURL(title, artist)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var landed string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(searchURL),
		chromedp.Location(&landed),
	)
	if err != nil {
		r.logger.Warn("tab resolution failed, falling back to search URL", "error", err, "url", searchURL)
		return searchURL
	}

	if landed == "" {
		return searchURL
	}

	return landed
}
