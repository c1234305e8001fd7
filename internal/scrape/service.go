package scrape

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/metrics"
	"github.com/varoOP/toplists/internal/normalize"
)

const notifyTimeout = 10 * time.Second

// Service is the live catalog. Items never returns an error: a failed refresh
// falls back to the last good snapshot, which is empty before the first success.
type Service interface {
	domain.CatalogSource
	Snapshot() ([]domain.CatalogItem, time.Time)
}

type snapshot struct {
	items     []domain.CatalogItem
	fetchedAt time.Time
}

type service struct {
	log        zerolog.Logger
	url        string
	idPrefix   string
	limit      int
	ttl        time.Duration
	timeout    time.Duration
	strategies []Strategy
	notifier   domain.NotificationService

	group   singleflight.Group
	current atomic.Pointer[snapshot]
	healthy atomic.Bool
}

func NewService(log zerolog.Logger, cfg *domain.Config, notifier domain.NotificationService) Service {
	s := &service{
		log:        log.With().Str("module", "scrape").Logger(),
		url:        cfg.LiveURL,
		idPrefix:   cfg.LiveIDPrefix,
		limit:      cfg.LiveLimit,
		ttl:        cfg.LiveTTL,
		timeout:    cfg.LiveTimeout,
		strategies: DefaultStrategies,
		notifier:   notifier,
	}
	s.healthy.Store(true)
	return s
}

func (s *service) Items(ctx context.Context) ([]domain.CatalogItem, error) {
	if snap := s.current.Load(); snap != nil && s.ttl > 0 && time.Since(snap.fetchedAt) < s.ttl {
		metrics.LiveRefreshes.WithLabelValues(metrics.RefreshCached).Inc()
		return snap.items, nil
	}

	// Concurrent callers share one outbound request.
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		return s.refresh()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			items := s.lastGood()
			s.log.Warn().Err(res.Err).Int("served", len(items)).Msg("live refresh failed, serving last snapshot")
			return items, nil
		}
		return res.Val.(*snapshot).items, nil
	case <-ctx.Done():
		return s.lastGood(), nil
	}
}

// Snapshot returns the current items and when they were fetched.
func (s *service) Snapshot() ([]domain.CatalogItem, time.Time) {
	if snap := s.current.Load(); snap != nil {
		return snap.items, snap.fetchedAt
	}
	return []domain.CatalogItem{}, time.Time{}
}

func (s *service) lastGood() []domain.CatalogItem {
	items, _ := s.Snapshot()
	return items
}

func (s *service) refresh() (*snapshot, error) {
	start := time.Now()
	titles, strategy, err := s.scrape()
	metrics.LiveRefreshDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		result := metrics.RefreshError
		if errors.Is(err, domain.ErrNoTitles) {
			result = metrics.RefreshEmpty
		}
		metrics.LiveRefreshes.WithLabelValues(result).Inc()
		s.markFailed(err)
		return nil, err
	}

	if len(titles) > s.limit {
		titles = titles[:s.limit]
	}

	items := make([]domain.CatalogItem, 0, len(titles))
	for i, t := range titles {
		items = append(items, normalize.Series(s.idPrefix, i+1, t))
	}

	snap := &snapshot{items: items, fetchedAt: time.Now()}
	s.current.Store(snap)

	metrics.LiveRefreshes.WithLabelValues(metrics.RefreshSuccess).Inc()
	metrics.LiveItems.Set(float64(len(items)))

	s.log.Debug().
		Str("strategy", strategy).
		Int("items", len(items)).
		Dur("took", time.Since(start)).
		Msg("Live catalog refreshed")

	s.markHealthy(len(items))
	return snap, nil
}

// scrape fetches the source page and runs the extraction strategies over it.
// A page that yields no titles is treated as a failed refresh so it never
// replaces a good snapshot.
func (s *service) scrape() ([]string, string, error) {
	body, err := s.fetch()
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to parse page")
	}

	titles, strategy := Extract(doc, s.strategies)
	if len(titles) == 0 {
		return nil, "", errors.Wrapf(domain.ErrNoTitles, "%s", s.url)
	}

	return titles, strategy, nil
}

func (s *service) fetch() ([]byte, error) {
	cc := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	cc.SetRequestTimeout(s.timeout)

	extensions.RandomUserAgent(cc)

	cc.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.Headers.Set("Accept-Language", "nl-NL,nl;q=0.9,en;q=0.8")
		s.log.Debug().Str("url", r.URL.String()).Msg("visiting")
	})

	var body []byte
	cc.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := cc.Visit(s.url); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", s.url)
	}

	return body, nil
}

func (s *service) markFailed(err error) {
	if !s.healthy.CompareAndSwap(true, false) {
		return
	}
	status := domain.RefreshStatus{
		Source:      s.idPrefix,
		URL:         s.url,
		ServedItems: len(s.lastGood()),
		Err:         err,
	}
	s.notify(func(ctx context.Context) error {
		return s.notifier.SendRefreshFailed(ctx, status)
	})
}

func (s *service) markHealthy(items int) {
	if !s.healthy.CompareAndSwap(false, true) {
		return
	}
	status := domain.RefreshStatus{
		Source:      s.idPrefix,
		URL:         s.url,
		Items:       items,
		ServedItems: items,
	}
	s.notify(func(ctx context.Context) error {
		return s.notifier.SendRefreshRecovered(ctx, status)
	})
}

func (s *service) notify(send func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Failed to send refresh notification")
		}
	}()
}
