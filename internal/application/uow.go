// AngelaMos | 2026
// uow.go

package application

import (
	"context"

	"github.com/carterperez-dev/lifesure-api/internal/core"
	"github.com/carterperez-dev/lifesure-api/internal/policy"
)

type PurchaseCounter interface {
	IncrementPurchaseCount(ctx context.Context, policyID string) error
}

// UnitOfWork runs fn with repositories bound to one transaction. Either
// everything fn wrote commits or none of it does.
type UnitOfWork interface {
	Do(
		ctx context.Context,
		fn func(repo Repository, counter PurchaseCounter) error,
	) error
}

type txUnitOfWork struct {
	tx core.Transactor
}

func NewUnitOfWork(tx core.Transactor) UnitOfWork {
	return &txUnitOfWork{tx: tx}
}

func (u *txUnitOfWork) Do(
	ctx context.Context,
	fn func(repo Repository, counter PurchaseCounter) error,
) error {
	return u.tx.InTx(ctx, func(db core.DBTX) error {
		return fn(NewRepository(db), policy.NewRepository(db))
	})
}
