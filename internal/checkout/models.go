package checkout

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID        string
	Address   string
	City      string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID        string
	FirstName string
	Email     string
	CreatedAt time.Time
}

// Payment is 1:1 with its Order and references at most one Customer. The
// gateway fields stay zero until the reconciler applies a verdict.
type Payment struct {
	ID                   string
	AmountCents          int64
	Currency             string
	PaymentStatus        string
	DatePayment          *time.Time
	GatewayTransactionID string
	TransactionDate      *time.Time
	PaymentMethod        string
	PaymentMethodName    string
	OperationDate        *time.Time
	ReferenceSale        string
	OrderID              string
	CustomerID           string
	CreatedAt            time.Time
}

// PaymentItem is immutable once written.
type PaymentItem struct {
	ID             string
	PaymentID      string
	ProductID      string
	Quantity       int
	UnitPriceCents int64
}

type ItemInput struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPrice"`
}

type PaymentInput struct {
	AmountCents int64       `json:"amount"`
	Currency    string      `json:"currency"`
	Items       []ItemInput `json:"items"`
}

type CreateOrderInput struct {
	Address               string       `json:"address"`
	City                  string       `json:"city"`
	Phone                 string       `json:"phone"`
	Email                 string       `json:"email"`
	FirstName             string       `json:"firstName"`
	Status                string       `json:"status,omitempty"`
	Payment               PaymentInput `json:"payment"`
	CardToken             string       `json:"cardToken"`
	AcceptanceToken       string       `json:"acceptanceToken"`
	PersonalDataAuthToken string       `json:"personalDataAuthToken"`
	Quotas                string       `json:"quotas"`
}

// StatusUpdate is the externally reported verdict applied by the reconciler.
type StatusUpdate struct {
	Status               string `json:"status"`
	GatewayTransactionID string `json:"id"`
	MethodName           string `json:"methodName"`
	FinalizedAt          string `json:"finalizedAt"`
}
