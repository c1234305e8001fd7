package app

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/toplists/internal/catalog"
	"github.com/varoOP/toplists/internal/csvsource"
	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/manifest"
	"github.com/varoOP/toplists/internal/metrics"
	"github.com/varoOP/toplists/internal/notification"
	"github.com/varoOP/toplists/internal/repository"
	"github.com/varoOP/toplists/internal/scrape"
	"github.com/varoOP/toplists/internal/server"
)

const tip = "Gebruik /manifest.json in Stremio"

var endpoints = []string{
	"/manifest.json",
	"/catalog/movie/" + domain.FilmCatalogID + ".json?skip=0",
	"/catalog/series/" + domain.SeriesCatalogID + ".json",
	"/metrics",
}

// App represents the main application with all dependencies initialized
type App struct {
	log      zerolog.Logger
	config   *domain.Config
	static   *csvsource.StaticSource
	live     scrape.Service
	registry *catalog.Registry
	manifest domain.Manifest
	repo     domain.CatalogRepository
	server   *server.Server
}

// NewApp loads the static catalog and wires every service. A static catalog
// that cannot be loaded is fatal: the addon never starts with an empty list.
func NewApp(ctx context.Context, cfg *domain.Config, log zerolog.Logger) (*App, error) {
	loader := csvsource.NewService(log)
	items, err := loader.Load(ctx, cfg.CSVPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load static catalog")
	}
	metrics.StaticItems.Set(float64(len(items)))

	static := csvsource.NewStaticSource(items)
	notificationService := notification.NewService(log, cfg.DiscordWebhookURL)
	live := scrape.NewService(log, cfg, notificationService)

	registry, err := catalog.NewRegistry(log,
		catalog.Entry{
			Descriptor: domain.CatalogDescriptor{
				Type:           domain.CatalogTypeMovie,
				ID:             domain.FilmCatalogID,
				DisplayName:    domain.FilmCatalogName,
				SupportsPaging: true,
				PageSize:       cfg.PageSize,
			},
			Source: static,
		},
		catalog.Entry{
			Descriptor: domain.CatalogDescriptor{
				Type:        domain.CatalogTypeSeries,
				ID:          domain.SeriesCatalogID,
				DisplayName: domain.SeriesCatalogName,
			},
			Source: live,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build catalog registry")
	}

	a := &App{
		log:      log.With().Str("module", "app").Logger(),
		config:   cfg,
		static:   static,
		live:     live,
		registry: registry,
		manifest: manifest.Build(cfg, registry.Descriptors()),
		repo:     repository.NewFileRepository(log),
	}
	a.server = server.New(log, cfg, registry, a.manifest, a.info)

	return a, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.log.Info().
		Str("csv", a.config.CSVPath).
		Int("items", a.static.Len()).
		Int("page_size", a.config.PageSize).
		Str("live_url", a.config.LiveURL).
		Dur("live_ttl", a.config.LiveTTL).
		Msg("Serving catalogs")

	return a.server.ListenAndServe(ctx)
}

// Handler exposes the HTTP handler without binding a port.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Export writes the static catalog, or a fresh live snapshot, to out.
func (a *App) Export(ctx context.Context, out string, live bool) error {
	var (
		items []domain.CatalogItem
		err   error
	)
	if live {
		items, err = a.live.Items(ctx)
	} else {
		items, err = a.static.Items(ctx)
	}
	if err != nil {
		return errors.Wrap(err, "failed to collect catalog")
	}

	if err := a.repo.Store(ctx, out, items); err != nil {
		return errors.Wrap(err, "failed to export catalog")
	}

	a.log.Info().Str("out", out).Bool("live", live).Int("items", len(items)).Msg("Exported catalog")
	return nil
}

func (a *App) info() server.Info {
	info := server.Info{
		OK:        true,
		Source:    a.config.CSVPath,
		Items:     a.static.Len(),
		PageSize:  a.config.PageSize,
		LiveURL:   a.config.LiveURL,
		LiveTTL:   a.config.LiveTTL.String(),
		Endpoints: endpoints,
		Tip:       tip,
	}
	if _, fetchedAt := a.live.Snapshot(); !fetchedAt.IsZero() {
		info.LiveFetchedAt = &fetchedAt
	}
	return info
}
