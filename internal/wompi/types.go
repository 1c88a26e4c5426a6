package wompi

// PermalinkTerms is the legal permalink the gateway requires on every
// transaction request.
const PermalinkTerms = "https://wompi.com/assets/downloadble/reglamento-Usuarios-Colombia.pdf"

type CardRequest struct {
	Number     string `json:"number"`
	CVC        string `json:"cvc"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CardHolder string `json:"card_holder"`
}

type PaymentMethod struct {
	Type         string `json:"type"`
	Installments int    `json:"installments"`
	Token        string `json:"token"`
}

type TransactionRequest struct {
	AcceptanceToken    string        `json:"acceptance_token"`
	AcceptPersonalAuth string        `json:"accept_personal_auth"`
	Permalink          string        `json:"permalink"`
	AmountInCents      int64         `json:"amount_in_cents"`
	Currency           string        `json:"currency"`
	Signature          string        `json:"signature"`
	CustomerEmail      string        `json:"customer_email"`
	Reference          string        `json:"reference"`
	PaymentMethod      PaymentMethod `json:"payment_method"`
}

// Transaction is the gateway's view of a charge, returned by both
// CreateTransaction and VerifyTransaction.
type Transaction struct {
	ID                string                   `json:"id"`
	CreatedAt         string                   `json:"created_at"`
	FinalizedAt       string                   `json:"finalized_at"`
	AmountInCents     int64                    `json:"amount_in_cents"`
	Reference         string                   `json:"reference"`
	CustomerEmail     string                   `json:"customer_email"`
	Currency          string                   `json:"currency"`
	PaymentMethodType string                   `json:"payment_method_type"`
	PaymentMethod     TransactionPaymentMethod `json:"payment_method"`
	Status            string                   `json:"status"`
	StatusMessage     string                   `json:"status_message"`
}

type TransactionPaymentMethod struct {
	Type         string `json:"type"`
	Installments int    `json:"installments"`
	Extra        struct {
		Bin        string `json:"bin"`
		Name       string `json:"name"`
		Brand      string `json:"brand"`
		CardType   string `json:"card_type"`
		LastFour   string `json:"last_four"`
		CardHolder string `json:"card_holder"`
	} `json:"extra"`
}

// AcceptanceTokens carries the two presigned tokens the merchant endpoint
// hands out, plus the permalinks of the documents the shopper accepts.
type AcceptanceTokens struct {
	AcceptanceToken       string `json:"acceptanceToken"`
	PersonalDataAuthToken string `json:"personalDataAuthToken"`
	PermalinkA            string `json:"permalinkA"`
	PermalinkB            string `json:"permalinkB"`
}
