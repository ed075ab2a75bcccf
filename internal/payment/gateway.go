// Package payment abstracts the payment provider. Only the mock provider
// exists for now; a real integration implements the same Gateway.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Receipt is the provider's confirmation of a successful charge.
type Receipt struct {
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paidAt"`
}

type Gateway interface {
	Charge(ctx context.Context, orderID string, amount float64) (*Receipt, error)
}

type mockGateway struct{}

// NewMockGateway returns a gateway that approves every charge with a
// synthetic reference. Used until a real provider is wired in.
func NewMockGateway() Gateway {
	return &mockGateway{}
}

func (g *mockGateway) Charge(_ context.Context, orderID string, amount float64) (*Receipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid charge amount: %.2f", amount)
	}
	_ = orderID
	return &Receipt{
		Reference: "MOCK-" + uuid.NewString(),
		Amount:    amount,
		PaidAt:    time.Now(),
	}, nil
}
