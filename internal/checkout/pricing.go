package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/paypal"
	"github.com/shopspring/decimal"
)

// Rates converts display-currency prices into the settlement currency.
type Rates struct {
	Display    string
	Settlement string
	Rate       decimal.Decimal // display units per settlement unit
}

// Convert divides by the rate and rounds half away from zero to cents.
func (r Rates) Convert(price decimal.Decimal) decimal.Decimal {
	return price.Div(r.Rate).Round(2)
}

// BuildOrderRequest mirrors the cart into a capture-intent order. The
// declared amount is the sum of the already rounded item amounts, so it always
// equals the item breakdown the processor validates against.
func BuildOrderRequest(items []LineItem, r Rates, returnURL string) paypal.OrderRequest {
	ppItems := make([]paypal.Item, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		unit := r.Convert(it.Price)
		total = total.Add(unit)
		ppItems = append(ppItems, paypal.Item{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    "1",
			UnitAmount:  paypal.Money{CurrencyCode: r.Settlement, Value: unit.StringFixed(2)},
		})
	}
	value := total.StringFixed(2)

	return paypal.OrderRequest{
		Intent: paypal.IntentCapture,
		PurchaseUnits: []paypal.PurchaseUnit{{
			Amount: paypal.Amount{
				CurrencyCode: r.Settlement,
				Value:        value,
				Breakdown: &paypal.Breakdown{
					ItemTotal: paypal.Money{CurrencyCode: r.Settlement, Value: value},
				},
			},
			Items: ppItems,
		}},
		ApplicationContext: paypal.ApplicationContext{ReturnURL: returnURL, CancelURL: returnURL},
	}
}

// StripURL drops query and fragment, keeping scheme, host and path.
func StripURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// SameOrigin reports whether raw is an absolute URL with the scheme and host of origin.
func SameOrigin(raw, origin string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Scheme, o.Scheme) && strings.EqualFold(u.Host, o.Host)
}
