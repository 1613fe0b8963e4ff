package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/importacademy/hotmart-bridge/internal/eventlog"
)

// MetaKeyTransactionID correlates local orders with the payment
// platform's purchase identifier. It is the only key refunds use.
const MetaKeyTransactionID = "hotmart_transaction_id"

const (
	noteNewAccountOrder      = "[Compra pela hotmart]"
	noteExistingAccountOrder = "Pedido completado automaticamente para usuário existente."
	noteRefund               = "Pedido reembolsado automaticamente devido a chargeback ou reembolso."
)

var (
	ErrProductNotFound = errors.New("orders: product not found")
	ErrProductAttach   = errors.New("orders: failed to attach product")
	ErrStatusUpdate    = errors.New("orders: failed to update status")
)

// Store is the persistence surface the reconciler drives.
type Store interface {
	// FindProductByName returns (nil, nil) when the catalog has no
	// product with that exact name.
	FindProductByName(ctx context.Context, name string) (*Product, error)
	CreateOrder(ctx context.Context, customerID string) (*Order, error)
	AddLineItem(ctx context.Context, orderID string, p *Product, qty int) error
	SetBillingAddress(ctx context.Context, orderID string, addr Address) error
	CalculateTotals(ctx context.Context, orderID string) (int, error)
	UpdateStatus(ctx context.Context, orderID string, to Status, note string) error
	SetMetadata(ctx context.Context, orderID, key, value string) error
	QueryByMetadata(ctx context.Context, key, value string, statuses []Status) ([]Order, error)
}

// Notifier tells an existing buyer a new product landed on their
// account. Fire-and-forget.
type Notifier interface {
	ProductAvailableEmail(ctx context.Context, email, firstName, productName string)
}

// ExistingAccountPurchase carries what the existing-account order path
// needs from upstream stages.
type ExistingAccountPurchase struct {
	AccountID     string
	Email         string
	FirstName     string
	ProductName   string
	TransactionID string
}

// Reconciler creates and reverses orders for validated purchase
// events. Partial failures leave the order as-is; cleanup of orphaned
// orders is an operational task, not ours.
type Reconciler struct {
	Store    Store
	Notifier Notifier
	Log      *eventlog.Logger
}

// CreateOrderForNewAccount builds a Completed order for a buyer whose
// account was provisioned by this same event.
func (r *Reconciler) CreateOrderForNewAccount(ctx context.Context, accountID, firstName, email, productName, transactionID string) (*Order, error) {
	product, err := r.Store.FindProductByName(ctx, productName)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		r.Log.Critical(ctx, "Product not found: "+productName, "")
		return nil, ErrProductNotFound
	}

	order, err := r.Store.CreateOrder(ctx, accountID)
	if err != nil {
		r.Log.Critical(ctx, "Erro ao criar pedido durante o webhook: "+err.Error(),
			"Transaction ID: "+transactionID+", Email: "+email)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := r.Store.AddLineItem(ctx, order.ID, product, 1); err != nil {
		r.Log.Critical(ctx, "Error adding product to order: "+productName, "")
		return nil, ErrProductAttach
	}

	order.Billing = Address{FirstName: firstName, Email: email}
	if err := r.Store.SetBillingAddress(ctx, order.ID, order.Billing); err != nil {
		return nil, fmt.Errorf("set billing address: %w", err)
	}

	if order.TotalCents, err = r.Store.CalculateTotals(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("calculate totals: %w", err)
	}

	if err := r.Store.UpdateStatus(ctx, order.ID, StatusCompleted, noteNewAccountOrder); err != nil {
		r.Log.Critical(ctx, "Error updating order status for order ID: "+order.ID, "")
		return nil, ErrStatusUpdate
	}
	order.Status = StatusCompleted

	if err := r.Store.SetMetadata(ctx, order.ID, MetaKeyTransactionID, transactionID); err != nil {
		return nil, fmt.Errorf("set transaction metadata: %w", err)
	}
	return order, nil
}

// ProcessExistingAccount builds a Completed order for a buyer that
// already holds an account. No billing address is stamped; the account
// binding is enough. The transaction id is recorded the same way as on
// the new-account path so refunds can find these orders too.
func (r *Reconciler) ProcessExistingAccount(ctx context.Context, p ExistingAccountPurchase) (*Order, error) {
	product, err := r.Store.FindProductByName(ctx, p.ProductName)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		r.Log.Critical(ctx, "Product not found for existing user: "+p.ProductName, "")
		return nil, ErrProductNotFound
	}

	order, err := r.Store.CreateOrder(ctx, p.AccountID)
	if err != nil {
		r.Log.Critical(ctx, "Error creating order for existing user: "+err.Error(),
			"User ID: "+p.AccountID+", Email: "+p.Email)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := r.Store.AddLineItem(ctx, order.ID, product, 1); err != nil {
		r.Log.Critical(ctx, "Error adding product to order for existing user: "+p.ProductName, "")
		return nil, ErrProductAttach
	}

	if order.TotalCents, err = r.Store.CalculateTotals(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("calculate totals: %w", err)
	}

	if err := r.Store.UpdateStatus(ctx, order.ID, StatusCompleted, noteExistingAccountOrder); err != nil {
		r.Log.Critical(ctx, "Error updating order status for existing user: "+p.AccountID, "")
		return nil, ErrStatusUpdate
	}
	order.Status = StatusCompleted

	if err := r.Store.SetMetadata(ctx, order.ID, MetaKeyTransactionID, p.TransactionID); err != nil {
		return nil, fmt.Errorf("set transaction metadata: %w", err)
	}

	r.Notifier.ProductAvailableEmail(ctx, p.Email, p.FirstName, p.ProductName)
	return order, nil
}

// RefundByTransactionID moves every paid order correlated with the
// transaction to Refunded. Zero matches is a data-integrity signal,
// logged critically, but not a failure: the event itself was valid.
func (r *Reconciler) RefundByTransactionID(ctx context.Context, transactionID string) ([]Order, error) {
	matches, err := r.Store.QueryByMetadata(ctx, MetaKeyTransactionID, transactionID,
		[]Status{StatusCompleted, StatusProcessing})
	if err != nil {
		return nil, fmt.Errorf("query orders by transaction: %w", err)
	}
	if len(matches) == 0 {
		r.Log.Critical(ctx, "No orders found for transaction ID: "+transactionID, "")
		return nil, nil
	}

	refunded := make([]Order, 0, len(matches))
	for _, o := range matches {
		if err := r.Store.UpdateStatus(ctx, o.ID, StatusRefunded, noteRefund); err != nil {
			r.Log.Critical(ctx, "Error refunding order ID: "+o.ID, "Transaction ID: "+transactionID)
			continue
		}
		o.Status = StatusRefunded
		refunded = append(refunded, o)
	}
	return refunded, nil
}

// FindOrderByTransactionID returns any order already carrying the
// transaction id, in any status, or nil when none exists.
func (r *Reconciler) FindOrderByTransactionID(ctx context.Context, transactionID string) (*Order, error) {
	matches, err := r.Store.QueryByMetadata(ctx, MetaKeyTransactionID, transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("query orders by transaction: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}
