package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lumina/internal/advisory"
	"lumina/internal/book"
	"lumina/internal/config"
	"lumina/internal/lending"
	"lumina/internal/member"
	"lumina/internal/platform/openlibrary"
	"lumina/internal/query"
	"lumina/internal/seed"
	"lumina/internal/store"
)

// app holds the wired service graph.
type app struct {
	store    *store.Store
	report   seed.Report
	handlers handlers
}

type handlers struct {
	books    *book.HTTPHandler
	members  *member.HTTPHandler
	lending  *lending.HTTPHandler
	query    *query.HTTPHandler
	advisory *advisory.HTTPHandler
}

// loadSeed reads the configured seed source and normalizes it.
func loadSeed(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Snapshot, seed.Report, error) {
	src, closeSrc, err := seed.Open(ctx, seed.Options{File: cfg.SeedFile, DSN: cfg.SeedDSN})
	if err != nil {
		return store.Snapshot{}, seed.Report{}, err
	}
	defer closeSrc()

	loader := seed.NewLoader(src,
		seed.WithLoanPeriod(cfg.LoanPeriod),
		seed.WithLogger(logger.Named("seed")),
	)
	return loader.Load(ctx)
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	snap, report, err := loadSeed(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	st, err := store.New(snap)
	if err != nil {
		return nil, fmt.Errorf("build entity store: %w", err)
	}

	adv, err := advisory.NewGemini(ctx, advisory.Config{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		Timeout:    cfg.AdvisoryTimeout,
	}, logger.Named("advisory"))
	if err != nil {
		return nil, err
	}
	adv.WithISBNLookup(openlibrary.NewClient(openlibrary.Config{
		UserAgent:  cfg.OpenLibraryUserAgent,
		RPS:        cfg.OpenLibraryRPS,
		MaxRetries: cfg.OpenLibraryMaxRetries,
	}))

	return &app{
		store:    st,
		report:   report,
		handlers: wire(st, adv, logger, lending.WithLoanPeriod(cfg.LoanPeriod)),
	}, nil
}

func wire(st *store.Store, adv *advisory.Adapter, logger *zap.Logger, opts ...lending.Option) handlers {
	opts = append(opts, lending.WithLogger(logger.Named("lending")))
	lendingSvc := lending.NewService(st, opts...)
	return handlers{
		books:    book.NewHTTPHandler(book.NewService(st, logger.Named("book"))),
		members:  member.NewHTTPHandler(member.NewService(st, logger.Named("member"))),
		lending:  lending.NewHTTPHandler(lendingSvc),
		query:    query.NewHTTPHandler(st, lendingSvc.Now),
		advisory: advisory.NewHTTPHandler(adv, logger.Named("advisory")),
	}
}
