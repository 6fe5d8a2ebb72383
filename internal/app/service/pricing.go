package service

import (
	"encoding/json"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var (
	TaxRate = decimal.RequireFromString("0.10")
	// DemoSubtotal is what the checkout summary charges; the wizard is not wired to the cart.
	DemoSubtotal = decimal.NewFromInt(3398)
	// CartDeliveryFee is the flat standard fee shown on the cart page.
	CartDeliveryFee = decimal.NewFromInt(50)
)

type DeliveryOption struct {
	Type  model.DeliveryType
	Label string
	Fee   decimal.Decimal
	ETA   string
}

func (o DeliveryOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  model.DeliveryType `json:"type"`
		Label string             `json:"label"`
		Fee   json.Number        `json:"fee"`
		ETA   string             `json:"eta"`
	}{o.Type, o.Label, money(o.Fee), o.ETA})
}

var deliveryOptions = []DeliveryOption{
	{Type: model.DeliveryExpress, Label: "Express Delivery", Fee: decimal.NewFromInt(100), ETA: "Delivered in 60 minutes"},
	{Type: model.DeliveryStandard, Label: "Standard Delivery", Fee: decimal.NewFromInt(50), ETA: "Delivered in 2-3 hours"},
}

// DeliveryOptions lists the tiers in display order, express first.
func DeliveryOptions() []DeliveryOption {
	out := make([]DeliveryOption, len(deliveryOptions))
	copy(out, deliveryOptions)
	return out
}

func DeliveryOptionFor(t model.DeliveryType) (DeliveryOption, bool) {
	for _, o := range deliveryOptions {
		if o.Type == t {
			return o, true
		}
	}
	return DeliveryOption{}, false
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Delivery decimal.Decimal `json:"delivery"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies 10% tax rounded to paise and adds the delivery fee.
func ComputeTotals(subtotal, delivery decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Delivery: delivery,
		Total:    subtotal.Add(tax).Add(delivery),
	}
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal json.Number `json:"subtotal"`
		Tax      json.Number `json:"tax"`
		Delivery json.Number `json:"delivery"`
		Total    json.Number `json:"total"`
	}{money(t.Subtotal), money(t.Tax), money(t.Delivery), money(t.Total)})
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
