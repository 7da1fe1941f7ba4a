package engine

import (
	"context"
	"runtime"
	"sync"

	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler/interval"
)

type groupWork struct {
	index   int
	markers []frame.Value
}

type groupResult struct {
	index int
	ids   []int64
}

// Parallel runs the cumulative-sum algorithm per group on a bounded
// worker pool. It refuses identifiers without order columns: the
// incoming row order is not reproducible across partitioned inputs.
type Parallel struct {
	// Workers bounds the pool size. Zero means runtime.GOMAXPROCS(0).
	Workers int
}

// Name implements Engine.
func (Parallel) Name() string { return "parallel" }

// Transform implements Engine.
func (p Parallel) Transform(ctx context.Context, ident *interval.Identifier, f *frame.Frame) (*frame.Frame, error) {
	if len(ident.OrderColumns) == 0 {
		return nil, ErrOrderColumnsRequired
	}

	prep, err := ident.Prepare(f)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(prep.Groups) && len(prep.Groups) > 0 {
		workers = len(prep.Groups)
	}

	// Buffers sized to the pool so neither dispatch nor result delivery
	// blocks while at most `workers` groups are in flight.
	workCh := make(chan groupWork, workers)
	doneCh := make(chan groupResult, workers)

	var wg sync.WaitGroup
	var stopOnce sync.Once
	stopWorkers := func() {
		stopOnce.Do(func() {
			close(workCh)
			wg.Wait()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				doneCh <- groupResult{index: w.index, ids: ident.Cumsum(w.markers)}
			}
		}()
	}

	groupIDs := make([][]int64, len(prep.Groups))
	next := 0
	inFlight := 0
	collected := 0
	for collected < len(prep.Groups) {
		for inFlight < workers && next < len(prep.Groups) {
			workCh <- groupWork{index: next, markers: prep.GroupMarkers(prep.Groups[next])}
			inFlight++
			next++
		}

		select {
		case <-ctx.Done():
			stopWorkers()
			return nil, ctx.Err()
		case r := <-doneCh:
			groupIDs[r.index] = r.ids
			inFlight--
			collected++
		}
	}
	stopWorkers()

	ids := make([]int64, f.Len())
	for gi, g := range prep.Groups {
		for k, row := range g.Rows {
			ids[row] = groupIDs[gi][k]
		}
	}
	return prep.Scatter(f, ident.TargetColumn(), ids)
}
