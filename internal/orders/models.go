package orders

import "time"

type Product struct {
	ID         string
	Name       string
	PriceCents int
	CreatedAt  time.Time
}

// Address is the billing contact stamped on orders created for a
// freshly provisioned buyer. Existing-account orders carry none.
type Address struct {
	FirstName string
	Email     string
}

type Order struct {
	ID         string
	CustomerID string
	Status     Status
	TotalCents int
	Billing    Address
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID         int64
	OrderID    string
	ProductID  string
	Qty        int
	PriceCents int
}
