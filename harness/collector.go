package harness

import (
	"context"
	"sync"

	"github.com/playproof/playproof/mutation"
)

// Collector merges mutant outcomes arriving from any number of concurrent
// workers into a Store. Because score aggregation is commutative, no
// ordering between workers is required or preserved.
type Collector struct {
	store Store
}

// NewCollector creates a collector writing into the given store.
func NewCollector(store Store) *Collector {
	return &Collector{store: store}
}

// Collect drains every stream until all are closed or the context is
// canceled, recording each outcome. It returns the first store error
// encountered; a canceled context is not an error, it simply leaves the
// remaining mutants unrecorded (they reconcile as not executed).
func (c *Collector) Collect(ctx context.Context, streams ...<-chan mutation.Result) error {
	merged := make(chan mutation.Result)
	var wg sync.WaitGroup
	for _, stream := range streams {
		wg.Add(1)
		go func(ch <-chan mutation.Result) {
			defer wg.Done()
			for r := range ch {
				select {
				case merged <- r:
				case <-ctx.Done():
					return
				}
			}
		}(stream)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	var firstErr error
	for r := range merged {
		if err := c.store.Put(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Reconcile matches a mutant catalog against recorded outcomes. A mutant
// with no outcome (harness timed out, skipped, or crashed) is reported as
// not executed, never inferred as survived.
func Reconcile(ctx context.Context, store Store, catalog []mutation.Mutant) ([]mutation.Result, error) {
	recorded, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]mutation.Result, len(recorded))
	for _, r := range recorded {
		byID[r.MutantID] = r
	}

	out := make([]mutation.Result, 0, len(catalog))
	for _, m := range catalog {
		if r, ok := byID[m.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, mutation.Result{
			MutantID: m.ID,
			Class:    m.Class,
			Status:   mutation.StatusNotExecuted,
		})
	}
	return out, nil
}

// ScoreStore is a convenience that reconciles a catalog against a store
// and reduces the outcomes into a mutation score.
func ScoreStore(ctx context.Context, store Store, catalog []mutation.Mutant) (*mutation.Score, error) {
	results, err := Reconcile(ctx, store, catalog)
	if err != nil {
		return nil, err
	}
	return mutation.CalculateScore(results), nil
}
