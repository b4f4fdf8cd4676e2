package checkout

// LineItemInput is one purchasable line sent by the storefront client.
type LineItemInput struct {
	ProductID  string  `json:"productId" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	PriceCents int64   `json:"priceCents" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	Size       *string `json:"size,omitempty"`
	Color      *string `json:"color,omitempty"`
}

// CreateSessionInput is the payload for starting a hosted checkout session.
// Redirect URL overrides are honored only when they stay on the storefront
// origin; otherwise the configured defaults apply.
type CreateSessionInput struct {
	Items         []LineItemInput `json:"items" validate:"required,min=1,dive"`
	Mode          string          `json:"mode"`
	CustomerEmail string          `json:"customerEmail" validate:"omitempty,email"`
	SuccessURL    string          `json:"successUrl"`
	CancelURL     string          `json:"cancelUrl"`
}

// CreateSessionOutput carries the hosted payment page handoff.
type CreateSessionOutput struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}
