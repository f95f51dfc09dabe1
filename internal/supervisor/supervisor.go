// Package supervisor runs one concrete-interpreter attempt under a
// wall-clock deadline, per spec §5's cooperative-cancellation model:
// a worker polls a cancellation flag at step boundaries rather than
// being forcibly killed. A worker goroutine carries the attempt, an
// atomic flag carries the cancellation signal, and context's deadline
// drives when that flag gets flipped.
package supervisor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Work is one concrete-run attempt: it must poll cancelled() at
// opcode-step boundaries (internal/concrete.Run already does this)
// and return promptly once cancelled reports true.
type Work func(cancelled func() bool) (outcome string, err error)

// Result is one supervised run's outcome, tagged with a run id for
// log correlation across concurrent fuzzing attempts (spec §5 is
// single-worker today, but the tag costs nothing and generalizes for
// free).
type Result struct {
	RunID   uuid.UUID
	Outcome string
	Err     error
}

// Run executes work under deadline: if work has not returned by the
// time deadline elapses, its cancellation flag is flipped and Run
// waits for work to notice and return — it never abandons the
// goroutine, signaling and joining rather than killing it outright.
func Run(ctx context.Context, deadline time.Duration, work Work) Result {
	runID := uuid.New()

	deadlineCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	var cancelled atomic.Bool
	g, gctx := errgroup.WithContext(deadlineCtx)

	g.Go(func() error {
		<-gctx.Done()
		cancelled.Store(true)
		return nil
	})

	var outcome string
	g.Go(func() error {
		defer cancel() // release the watcher goroutine once work returns
		o, err := work(cancelled.Load)
		outcome = o
		return err
	})

	err := g.Wait()
	return Result{RunID: runID, Outcome: outcome, Err: err}
}
