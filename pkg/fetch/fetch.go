// Package fetch composes the search paginator, the batch job controller,
// and the entry stream reader into the consumer-facing retrieval surface:
// query text in, a sequence of decoded records out.
package fetch

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/sequencetools/uniprot-client/pkg/batch"
	"github.com/sequencetools/uniprot-client/pkg/client"
	"github.com/sequencetools/uniprot-client/pkg/entry"
	"github.com/sequencetools/uniprot-client/pkg/logging"
	"github.com/sequencetools/uniprot-client/pkg/search"
)

// Config holds facade configuration.
type Config struct {
	Search search.Config
	Batch  batch.Config
}

// DefaultConfig returns the default facade configuration.
func DefaultConfig() Config {
	return Config{
		Search: search.DefaultConfig(),
		Batch:  batch.DefaultConfig(),
	}
}

// Fetcher is the only consumer-facing surface of the retrieval protocol.
type Fetcher struct {
	paginator  *search.Paginator
	controller *batch.Controller
	logger     zerolog.Logger
}

// New creates a fetcher on top of the given client.
func New(c *client.Client, cfg Config) *Fetcher {
	return &Fetcher{
		paginator:  search.NewPaginator(c, cfg.Search),
		controller: batch.NewController(c, cfg.Batch),
		logger:     logging.NewLogger("fetcher"),
	}
}

// Result is one completed retrieval: the export byte stream and the record
// sequence decoded from it. The caller owns the stream and must call Close
// after consuming the sequence; closing invalidates all entries not yet
// read.
type Result struct {
	reader *entry.Reader
	body   io.ReadCloser
}

// Next returns the next record, or io.EOF when the sequence is exhausted.
func (r *Result) Next() (*entry.Entry, error) {
	return r.reader.Next()
}

// Close releases the underlying export stream.
func (r *Result) Close() error {
	return r.body.Close()
}

// Fetch runs the full retrieval: search the query, export the matching
// records, open the export stream. A query with no matches yields
// (nil, nil).
func (f *Fetcher) Fetch(ctx context.Context, query string) (*Result, error) {
	ids, err := f.paginator.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return f.FetchIDs(ctx, ids)
}

// FetchIDs skips the search phase for callers that already hold record
// identifiers. An empty list yields (nil, nil).
func (f *Fetcher) FetchIDs(ctx context.Context, ids []string) (*Result, error) {
	stream, err := f.controller.SubmitAndRetrieve(ctx, ids)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, nil
	}

	f.logger.Debug().Int("ids", len(ids)).Msg("Export stream open")

	return &Result{
		reader: entry.NewReader(stream),
		body:   stream,
	}, nil
}
