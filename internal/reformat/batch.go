package reformat

import (
	"context"
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
)

// Batch runs a Reformatter over many files with independent workers. Files
// never share mutable state, so the only coordination is the result queue
// feeding the single collector that owns the output sinks.
type Batch struct {
	ref     *Reformatter
	workers int
}

// NewBatch wraps a Reformatter for parallel runs.
func NewBatch(ref *Reformatter, workers int) (*Batch, error) {
	if ref == nil {
		return nil, errors.New("batch requires a reformatter")
	}
	if workers <= 0 {
		workers = 1
	}
	return &Batch{ref: ref, workers: workers}, nil
}

// Run processes every path and hands each FileResult to collect on a single
// goroutine, in completion order. A file that cannot be opened yields an
// aborted result; it never stops the rest of the batch.
func (b *Batch) Run(ctx context.Context, paths []string, collect func(*FileResult)) {
	queue := bus.NewQueue[*FileResult](b.workers * 2)
	pathCh := make(chan string)

	var workers sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-sys.Shutdown():
					return
				case path, ok := <-pathCh:
					if !ok {
						return
					}
					res, err := b.ref.Process(ctx, path)
					if err != nil {
						logs.Errorf("%s: %v", path, err)
						res = &FileResult{Source: path, Aborted: true, AbortErr: err}
					}
					if err := queue.Publish(ctx, res); err != nil {
						return
					}
				}
			}
		}()
	}

	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		queue.Run(ctx, collect)
	}()

	for _, path := range paths {
		select {
		case <-ctx.Done():
		case <-sys.Shutdown():
		case pathCh <- path:
			continue
		}
		break
	}
	close(pathCh)

	workers.Wait()
	queue.Close()
	collector.Wait()
}
