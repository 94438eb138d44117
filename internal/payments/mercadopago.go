package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

// CreateCheckout opens a checkout preference that expires together
// with the hold, so the payment UI cannot outlive the reservation.
func (m *MercadoPago) CreateCheckout(
	ctx context.Context,
	in CheckoutInput,
) (*Checkout, error) {

	expires := in.ExpiresAt

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     in.Title,
				Quantity:  1,
				UnitPrice: in.Amount,
			},
		},
		ExternalReference: in.Reference,
		Expires:           true,
		ExpirationDateTo:  &expires,
	}

	resp, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		ID:          resp.ID,
		CheckoutURL: resp.InitPoint,
	}, nil
}

func (m *MercadoPago) GetPayment(
	ctx context.Context,
	id int,
) (*PaymentInfo, error) {

	resp, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PaymentInfo{
		ID:        resp.ID,
		Status:    resp.Status,
		Reference: resp.ExternalReference,
		Amount:    resp.TransactionAmount,
	}, nil
}

var _ Provider = (*MercadoPago)(nil)
