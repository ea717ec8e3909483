package paypal

const (
	IntentCapture   = "CAPTURE"
	StatusCompleted = "COMPLETED"

	RelApprove = "approve"
)

type OrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
	Items  []Item `json:"items,omitempty"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Amount struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

type Breakdown struct {
	ItemTotal Money `json:"item_total"`
}

type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	UnitAmount  Money  `json:"unit_amount"`
}

type ApplicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the subset of the processor's order resource the checkout flow reads.
type Order struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Links         []Link          `json:"links"`
	PurchaseUnits []CapturedUnits `json:"purchase_units,omitempty"`
}

type CapturedUnits struct {
	Payments struct {
		Captures []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Amount Money  `json:"amount"`
		} `json:"captures"`
	} `json:"payments"`
}

// ApprovalLink returns the href of the user-facing approval link.
func (o *Order) ApprovalLink() (string, bool) {
	for _, l := range o.Links {
		if l.Rel == RelApprove && l.Href != "" {
			return l.Href, true
		}
	}
	return "", false
}

// CapturedAmount returns the first capture's amount, if the response carries one.
func (o *Order) CapturedAmount() (Money, bool) {
	for _, pu := range o.PurchaseUnits {
		if len(pu.Payments.Captures) > 0 {
			return pu.Payments.Captures[0].Amount, true
		}
	}
	return Money{}, false
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// errorBody covers both error shapes: OAuth (error_description) and REST (message).
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Name             string `json:"name"`
	Message          string `json:"message"`
}
