package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tabify/tabify/internal/media"
	"github.com/tabify/tabify/internal/services"
	"github.com/tabify/tabify/internal/shared"
)

// youtubeLessonFilter is the pre-encoded "sort by view count" filter the
// lesson link carries verbatim.
const youtubeLessonFilter = "EgIYAw%253D%253D"

// Result aggregates a resolved identification with its enrichment lookups.
//
// A Result exists iff identification succeeded; enrichment sub-results may
// independently be error-shaped but never prevent construction. Never mutated
// after construction.
type Result struct {
	Song           string                `json:"song"`
	Artist         string                `json:"artist"`
	Spotify        services.CatalogMatch `json:"spotify"`
	Tabs           string                `json:"tabs"`
	YouTubeLessons string                `json:"youtube_lessons"`
}

// Timeouts holds per-stage deadlines. Zero values disable the deadline.
type Timeouts struct {
	Fetch    time.Duration
	Identify time.Duration
	Enrich   time.Duration
}

// TimeoutsFromConfig converts configured second counts into [Timeouts].
func TimeoutsFromConfig(cfg shared.PipelineConfig) Timeouts {
	return Timeouts{
		Fetch:    time.Duration(cfg.FetchTimeoutSecs) * time.Second,
		Identify: time.Duration(cfg.IdentifyTimeoutSecs) * time.Second,
		Enrich:   time.Duration(cfg.EnrichTimeoutSecs) * time.Second,
	}
}

// Pipeline orchestrates fetch, identification, and enrichment for one request.
//
// Stages: fetch audio, identify, then catalog lookup and tab resolution
// concurrently with lesson synthesis inline. The fetched asset is released
// exactly once on every path out of the pipeline.
type Pipeline struct {
	fetcher    media.Fetcher
	recognizer services.Recognizer
	catalog    services.Catalog
	tabs       services.TabResolver
	logger     *log.Logger
	timeouts   Timeouts
}

// Opts contains the collaborators and settings for constructing a Pipeline.
type Opts struct {
	Fetcher    media.Fetcher
	Recognizer services.Recognizer
	Catalog    services.Catalog
	Tabs       services.TabResolver
	Logger     *log.Logger
	Timeouts   Timeouts
}

// New creates a Pipeline with the provided collaborators.
func New(opts Opts) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Pipeline{
		fetcher:    opts.Fetcher,
		recognizer: opts.Recognizer,
		catalog:    opts.Catalog,
		tabs:       opts.Tabs,
		logger:     opts.Logger,
		timeouts:   opts.Timeouts,
	}
}

// stageContext derives a per-stage context, with no deadline when d is zero.
func stageContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Find runs the full pipeline for a source locator.
//
// Hard failures: [shared.ErrInvalidInput] (empty locator),
// [shared.ErrFetchFailed], [shared.ErrUnidentified], and
// [shared.ErrRecognitionFailed]. Enrichment faults never fail the request;
// they degrade to error-shaped data inside the Result.
func (p *Pipeline) Find(ctx context.Context, locator string) (*Result, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("%w: source locator is required", shared.ErrInvalidInput)
	}

	fetchCtx, cancelFetch := stageContext(ctx, p.timeouts.Fetch)
	asset, err := p.fetcher.Fetch(fetchCtx, locator)
	cancelFetch()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := asset.Release(); err != nil {
			p.logger.Warn("failed to release audio asset", "error", err)
		}
	}()

	identifyCtx, cancelIdentify := stageContext(ctx, p.timeouts.Identify)
	identity, err := p.recognizer.Identify(identifyCtx, asset.Path())
	cancelIdentify()
	if err != nil {
		return nil, err
	}

	p.logger.Info("identified track", "title", identity.Title, "artist", identity.Artist)

	enrichCtx, cancelEnrich := stageContext(ctx, p.timeouts.Enrich)
	defer cancelEnrich()

	// Catalog and tab lookups depend only on the identity, not on each
	// other, so they run concurrently and join at the barrier below.
	var (
		wg    sync.WaitGroup
		match services.CatalogMatch
		tabs  string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		match = p.catalog.Lookup(enrichCtx, identity.Title, identity.Artist)
	}()
	go func() {
		defer wg.Done()
		tabs = p.tabs.ResolveTab(enrichCtx, identity.Title, identity.Artist)
	}()

	lessons := LessonLink(identity.Title, identity.Artist)

	wg.Wait()

	return &Result{
		Song:           identity.Title,
		Artist:         identity.Artist,
		Spotify:        match,
		Tabs:           tabs,
		YouTubeLessons: lessons,
	}, nil
}

// LessonLink builds the deep link into a YouTube search for guitar lessons.
//
// Pure and total: the same title and artist always produce the identical URL
// string, with the query percent-encoded (spaces become '+') and the lesson
// filter appended.
func LessonLink(title, artist string) string {
	query := url.QueryEscape(title + " " + artist + " guitar lesson")
	return "https://www.youtube.com/results?search_query=" + query + "&sp=" + youtubeLessonFilter
}
