package payments

import (
	"context"
	"time"
)

type CheckoutInput struct {
	Title     string
	Amount    float64
	Reference string
	ExpiresAt time.Time
}

type Checkout struct {
	ID          string
	CheckoutURL string
}

type PaymentInfo struct {
	ID        int
	Status    string
	Reference string
	Amount    float64
}

// Provider is the payment collaborator. The booking core only sees
// this interface; webhook delivery and checkout UI live on the
// provider side.
type Provider interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (*Checkout, error)
	GetPayment(ctx context.Context, id int) (*PaymentInfo, error)
}
