// Package worker runs feed fetches off the render loop. One Worker drains
// one Queue, fetching a single request at a time in the order sent.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/pders01/fred/internal/debuglog"
	"github.com/pders01/fred/internal/feed"
	"github.com/pders01/fred/internal/state"
)

// Fetcher retrieves and parses one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Document, error)
}

// IndexBuilder builds the search index for a freshly fetched document.
type IndexBuilder func(items []feed.Item) (state.Finder, error)

type Worker struct {
	queue      *Queue
	fetcher    Fetcher
	state      *state.State
	buildIndex IndexBuilder
	onComplete func(state.Request, error)
}

type Option func(*Worker)

// WithIndexBuilder enables item search on every loaded document.
func WithIndexBuilder(b IndexBuilder) Option {
	return func(w *Worker) { w.buildIndex = b }
}

// WithOnComplete registers fn to run after each result has been merged.
// It is called without the state lock held.
func WithOnComplete(fn func(state.Request, error)) Option {
	return func(w *Worker) { w.onComplete = fn }
}

func New(q *Queue, f Fetcher, s *state.State, opts ...Option) *Worker {
	w := &Worker{
		queue:   q,
		fetcher: f,
		state:   s,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes requests until ctx is cancelled or the queue is closed
// and drained. A dispatched request is never skipped.
func (w *Worker) Run(ctx context.Context) error {
	debuglog.Infof("fetch worker started")
	defer debuglog.Infof("fetch worker stopped")

	for {
		req, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		w.process(ctx, req)
	}
}

// process fetches outside the state lock and merges inside it.
func (w *Worker) process(ctx context.Context, req state.Request) {
	log := debuglog.WithFields(map[string]interface{}{"feed": req.FeedIndex, "url": req.URL})
	started := time.Now()

	doc, err := w.fetcher.Fetch(ctx, req.URL)
	res := state.Result{Request: req, Document: doc, Err: err}

	if err == nil && doc != nil && w.buildIndex != nil {
		finder, indexErr := w.buildIndex(doc.Items)
		if indexErr != nil {
			log.Warnf("indexing items failed: %v", indexErr)
		} else {
			res.Finder = finder
		}
	}

	w.state.Complete(res)

	if err != nil {
		log.Warnf("fetch failed after %s: %v", time.Since(started).Round(time.Millisecond), err)
	} else if doc != nil {
		log.Infof("loaded %d items in %s", len(doc.Items), time.Since(started).Round(time.Millisecond))
	}

	if w.onComplete != nil {
		w.onComplete(req, err)
	}
}
