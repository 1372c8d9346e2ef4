package order

import "time"

type Status string

const (
	Pending    Status = "pending"
	Paid       Status = "paid"
	Processing Status = "processing"
	Shipped    Status = "shipped"
	Completed  Status = "completed"
	Cancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case Pending, Paid, Processing, Shipped, Completed, Cancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move between the two statuses.
// Every transition between known statuses is currently allowed; tightening
// the rules is a change to this one function.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

const PaymentBankTransfer = "bank_transfer"

type Order struct {
	ID              string    `json:"id" db:"order_id"`
	OrderNumber     string    `json:"orderNumber" db:"order_number"`
	CustomerName    string    `json:"customerName" db:"customer_name"`
	CustomerEmail   string    `json:"customerEmail" db:"customer_email"`
	CustomerPhone   string    `json:"customerPhone" db:"customer_phone"`
	CustomerAddress string    `json:"customerAddress" db:"customer_address"`
	Total           int       `json:"total" db:"total"`
	Status          Status    `json:"status" db:"status"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	Notes           string    `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Item freezes the product name and price at order time. Later edits or
// deactivation of the product do not touch these rows.
type Item struct {
	OrderID     string    `json:"orderId" db:"order_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       int       `json:"price" db:"price"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type ItemNew struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
	Price       int    `json:"price" validate:"gte=0"`
}

type OrderNew struct {
	CustomerName    string    `json:"customerName" validate:"required"`
	CustomerEmail   string    `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
	Items           []ItemNew `json:"items" validate:"required,min=1,dive"`
	Total           int       `json:"total" validate:"gte=0"`
	Notes           string    `json:"notes"`
}

type StatusUp struct {
	ID        string    `db:"order_id"`
	Status    Status    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}
