package stripecheckout

import "github.com/stripe/stripe-go/v81"

// PaymentStatusPaid is the only session status that settles an order.
const PaymentStatusPaid = "paid"

// LineItem is one priced row of a checkout session. Amounts are in the
// currency's minor unit (paise for INR).
type LineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64
	Quantity    int64
}

type CreateSessionRequest struct {
	CustomerID string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is the part of a Stripe checkout session this service reads.
type Session struct {
	ID             string
	URL            string
	PaymentStatus  string
	AmountSubtotal int64
	AmountTotal    int64
	Metadata       map[string]string
	LineItems      []SessionLineItem
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

type SessionLineItem struct {
	Description    string
	Quantity       int64
	UnitAmount     int64
	AmountSubtotal int64
	AmountTotal    int64
}

// Event is a verified webhook. Session is set for checkout.session.* events.
type Event struct {
	ID      string
	Type    string
	Session *Session
}

func toSession(cs *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:             cs.ID,
		URL:            cs.URL,
		PaymentStatus:  string(cs.PaymentStatus),
		AmountSubtotal: cs.AmountSubtotal,
		AmountTotal:    cs.AmountTotal,
		Metadata:       map[string]string{},
	}
	for k, v := range cs.Metadata {
		out.Metadata[k] = v
	}
	if cs.LineItems != nil {
		for _, li := range cs.LineItems.Data {
			item := SessionLineItem{
				Description:    li.Description,
				Quantity:       li.Quantity,
				AmountSubtotal: li.AmountSubtotal,
				AmountTotal:    li.AmountTotal,
			}
			if li.Price != nil {
				item.UnitAmount = li.Price.UnitAmount
			}
			out.LineItems = append(out.LineItems, item)
		}
	}
	return out
}
