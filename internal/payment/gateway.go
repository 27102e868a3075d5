package payment

import (
	"context"
	"fmt"

	"auralink/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Charge 一次付款請求
type Charge struct {
	Amount      float64
	Email       string
	Description string
}

// Receipt 付款結果
type Receipt struct {
	Reference string
	Amount    float64
}

type Gateway interface {
	// Charge 失敗時回傳 apperrors.ErrPaymentDeclined
	Charge(ctx context.Context, charge Charge) (*Receipt, error)
}

// SimulatedGateway 示範用金流，一律核准
type SimulatedGateway struct{}

func NewSimulatedGateway() Gateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(ctx context.Context, charge Charge) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("charge: %w", err)
	}
	receipt := &Receipt{
		Reference: "sim_" + uuid.NewString(),
		Amount:    charge.Amount,
	}
	logger.WithComponent("payment").Info("simulated charge approved",
		zap.String("reference", receipt.Reference),
		zap.Float64("amount", charge.Amount),
		zap.String("email", charge.Email),
	)
	return receipt, nil
}
