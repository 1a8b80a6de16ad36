// File: internal/lister/lister.go
package lister

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"kodoctl/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// ErrMissingCursor is returned when a page claims more results but carries no
// cursor to reach them. Re-requesting without one would restart the listing
var ErrMissingCursor = errors.New("backend reported more pages but returned no cursor")

var validate = validator.New()

// Lister drives cursor-based pagination over a PageFetcher
type Lister struct {
	fetcher storage.PageFetcher
	logger  *slog.Logger
}

func New(fetcher storage.PageFetcher, logger *slog.Logger) *Lister {
	return &Lister{
		fetcher: fetcher,
		logger:  logger.With("component", "Lister"),
	}
}

// List returns a lazy, single-use sequence of every object matching the query.
// Pages are requested one at a time as the caller consumes entries, in the
// order the backend returns them. A failed request yields exactly one
// *storage.ListingError with a zero entry and ends the sequence; entries
// yielded before it stand. Breaking out of the loop stops further requests
func (l *Lister) List(ctx context.Context, query storage.ListingQuery) iter.Seq2[storage.ObjectEntry, error] {
	return func(yield func(storage.ObjectEntry, error) bool) {
		if err := validate.Struct(query); err != nil {
			yield(storage.ObjectEntry{}, &storage.ListingError{
				Bucket: query.Bucket,
				Page:   1,
				Err:    fmt.Errorf("invalid listing query: %w", err),
			})
			return
		}

		cursor := ""
		emitted := 0

		for page := 1; ; page++ {
			result, err := l.fetcher.ListPage(ctx, query, cursor)
			if err != nil {
				l.logger.Error("Listing request failed", "bucket", query.Bucket, "page", page, "emitted", emitted, "error", err)
				yield(storage.ObjectEntry{}, &storage.ListingError{Bucket: query.Bucket, Page: page, Emitted: emitted, Err: err})
				return
			}

			l.logger.Debug("Fetched listing page", "bucket", query.Bucket, "page", page, "items", len(result.Items), "eof", result.EOF)

			for _, item := range result.Items {
				if !yield(item, nil) {
					return
				}
				emitted++
			}

			if result.EOF {
				return
			}

			if result.Cursor == "" {
				yield(storage.ObjectEntry{}, &storage.ListingError{Bucket: query.Bucket, Page: page + 1, Emitted: emitted, Err: ErrMissingCursor})
				return
			}
			cursor = result.Cursor
		}
	}
}

// Collect drains a listing sequence. On failure it returns the entries
// gathered so far together with the error
func Collect(seq iter.Seq2[storage.ObjectEntry, error]) ([]storage.ObjectEntry, error) {
	var entries []storage.ObjectEntry
	for entry, err := range seq {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
