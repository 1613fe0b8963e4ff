package webhook

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
	"github.com/importacademy/hotmart-bridge/internal/identity"
	"github.com/importacademy/hotmart-bridge/internal/orders"
)

// Resolver maps a buyer email to an account, provisioning one when
// none exists.
type Resolver interface {
	Resolve(ctx context.Context, email, username, firstName, lastName, fullName string) (*identity.Resolution, error)
}

// Reconciler creates and reverses orders.
type Reconciler interface {
	CreateOrderForNewAccount(ctx context.Context, accountID, firstName, email, productName, transactionID string) (*orders.Order, error)
	ProcessExistingAccount(ctx context.Context, p orders.ExistingAccountPurchase) (*orders.Order, error)
	RefundByTransactionID(ctx context.Context, transactionID string) ([]orders.Order, error)
	FindOrderByTransactionID(ctx context.Context, transactionID string) (*orders.Order, error)
}

// TxGuard is a cross-process mutex keyed by transaction id. Acquire
// returning false means another process holds the transaction.
type TxGuard interface {
	Acquire(ctx context.Context, transactionID string) (bool, error)
	Release(ctx context.Context, transactionID string)
}

// Outcome is the success-path result returned to the HTTP layer.
type Outcome struct {
	Message string
}

// Dispatcher routes a validated event by type. Approved purchases are
// serialized per transaction id, in-process through singleflight and
// across processes through the TxGuard, so a redelivered event cannot
// create a second order.
type Dispatcher struct {
	Resolver   Resolver
	Reconciler Reconciler
	Guard      TxGuard
	Log        *eventlog.Logger

	flight singleflight.Group
}

const successMessage = "Processed successfully!"

// Dispatch runs the event to completion and returns the outcome or a
// classified failure.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *ValidatedEvent) (*Outcome, *Failure) {
	switch ev.Type {
	case EventProtested, EventChargeback:
		return d.refund(ctx, ev)
	case EventApproved:
		return d.approve(ctx, ev)
	default:
		d.Log.Error(ctx, "Evento desconhecido: "+ev.RawEvent, "")
		return nil, failf(KindUnknownEvent, "Evento desconhecido")
	}
}

// refund is best-effort: the response is success whether or not any
// order matched. A zero-match case is already logged critically by the
// reconciler.
func (d *Dispatcher) refund(ctx context.Context, ev *ValidatedEvent) (*Outcome, *Failure) {
	if _, err := d.Reconciler.RefundByTransactionID(ctx, ev.TransactionID); err != nil {
		return nil, wrapf(KindStore, "Failed to refund order", err)
	}
	return &Outcome{Message: successMessage}, nil
}

func (d *Dispatcher) approve(ctx context.Context, ev *ValidatedEvent) (*Outcome, *Failure) {
	res, err, _ := d.flight.Do(ev.TransactionID, func() (any, error) {
		return d.approveLocked(ctx, ev)
	})
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return nil, f
		}
		return nil, wrapf(KindStore, "Failed to create order", err)
	}
	return res.(*Outcome), nil
}

func (d *Dispatcher) approveLocked(ctx context.Context, ev *ValidatedEvent) (*Outcome, error) {
	acquired, err := d.Guard.Acquire(ctx, ev.TransactionID)
	if err != nil {
		// A broken lock backend must not block purchases. The
		// metadata lookup below still catches most replays.
		d.Log.Error(ctx, "Lock acquire failed for transaction "+ev.TransactionID+": "+err.Error(), "")
	} else if !acquired {
		return nil, failf(KindStore, "Transaction is already being processed")
	} else {
		defer d.Guard.Release(ctx, ev.TransactionID)
	}

	// Replay of an already reconciled event answers success without
	// touching the store again.
	existing, err := d.Reconciler.FindOrderByTransactionID(ctx, ev.TransactionID)
	if err != nil {
		return nil, wrapf(KindStore, "Failed to create order", err)
	}
	if existing != nil {
		return &Outcome{Message: successMessage}, nil
	}

	res, err := d.Resolver.Resolve(ctx, ev.Email, ev.Username, ev.FirstName, ev.LastName, ev.FullName)
	if err != nil {
		return nil, wrapf(KindStore, "Failed to create user", err)
	}

	if res.Created {
		if _, err := d.Reconciler.CreateOrderForNewAccount(ctx,
			res.Account.ID, ev.FirstName, ev.Email, ev.ProductName, ev.TransactionID); err != nil {
			return nil, wrapf(KindStore, "Failed to create order", err)
		}
		return &Outcome{Message: successMessage}, nil
	}

	if _, err := d.Reconciler.ProcessExistingAccount(ctx, orders.ExistingAccountPurchase{
		AccountID:     res.Account.ID,
		Email:         res.Account.Email,
		FirstName:     res.Account.FirstName,
		ProductName:   ev.ProductName,
		TransactionID: ev.TransactionID,
	}); err != nil {
		return nil, wrapf(KindStore, "Failed to create order", err)
	}
	return &Outcome{Message: successMessage}, nil
}
