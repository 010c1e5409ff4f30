package uow

import (
	"context"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// TxRunner runs fn inside a transaction of the underlying store.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UoW represents a unit of work.
type UoW struct {
	runner TxRunner
}

func NewUoW(runner TxRunner) *UoW {
	return &UoW{runner: runner}
}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks in registration order.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.runner.RunTx(ctx, func(ctx context.Context) error {
		hooks = hooks[:0]
		return fn(ctx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
