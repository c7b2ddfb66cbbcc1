package mocks

import (
	"context"

	"github.com/phrazzld/blogsphere-api/internal/store"
)

// TxRunner runs each unit of work directly with a nil transaction.
// Err, when set, is returned instead of running the unit, simulating a
// failure to begin.
type TxRunner struct {
	Err   error
	Calls int
}

var _ store.TxRunner = (*TxRunner)(nil)

// RunInTx implements store.TxRunner.
func (r *TxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	return fn(ctx, nil)
}
