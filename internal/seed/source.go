package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options select a seed source. DSN takes precedence over File; with neither
// set the embedded default dataset is used.
type Options struct {
	File string
	DSN  string
}

// Open returns the source chosen by opts and a function releasing whatever it
// holds open.
func Open(ctx context.Context, opts Options) (Source, func(), error) {
	switch {
	case opts.DSN != "":
		pool, err := pgxpool.New(ctx, opts.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect seed database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping seed database: %w", err)
		}
		return NewPostgresSource(pool), pool.Close, nil
	case opts.File != "":
		return FileSource{Path: opts.File}, func() {}, nil
	default:
		return DefaultSource{}, func() {}, nil
	}
}
