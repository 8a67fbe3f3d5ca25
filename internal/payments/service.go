// Package payments implements the demo payment processor. Every charge
// settles after a fixed delay with a fabricated transaction id; no real
// gateway is involved and no money moves.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/metrics"
)

// Status of a simulated charge.
type Status string

const (
	StatusPending Status = "pending"
	StatusSettled Status = "settled"
)

// txnPrefixes keyed by payment method; transaction ids carry the method
// they settled through.
var txnPrefixes = map[enums.PaymentMethod]string{
	enums.PaymentMethodMpesa:  "MPESA",
	enums.PaymentMethodStripe: "CARD",
	enums.PaymentMethodPaypal: "PAYPAL",
}

// ChargeRequest describes one settlement attempt.
type ChargeRequest struct {
	Method enums.PaymentMethod
	Amount decimal.Decimal
	Phone  string
}

// Receipt is the outcome of a settled charge.
type Receipt struct {
	TransactionID string
	Method        enums.PaymentMethod
	Amount        decimal.Decimal
	Status        Status
	SettledAt     time.Time
}

// Processor settles simulated charges.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

type processor struct {
	ids         ident.Source
	settleDelay time.Duration
	metrics     *metrics.PaymentMetrics
}

// NewProcessor builds the simulated processor. metrics may be nil.
func NewProcessor(ids ident.Source, settleDelay time.Duration, m *metrics.PaymentMetrics) (Processor, error) {
	if ids == nil {
		return nil, fmt.Errorf("id source required")
	}
	if settleDelay < 0 {
		return nil, fmt.Errorf("settle delay cannot be negative")
	}
	return &processor{ids: ids, settleDelay: settleDelay, metrics: m}, nil
}

// Charge waits the configured settle delay and then succeeds. A charge
// cannot be abandoned once started; the only failure mode is invalid
// input.
func (p *processor) Charge(_ context.Context, req ChargeRequest) (*Receipt, error) {
	if !req.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is invalid")
	}
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than 0")
	}

	started := time.Now()
	if p.settleDelay > 0 {
		time.Sleep(p.settleDelay)
	}

	receipt := &Receipt{
		TransactionID: p.ids.Reference(txnPrefixes[req.Method]),
		Method:        req.Method,
		Amount:        req.Amount,
		Status:        StatusSettled,
		SettledAt:     p.ids.Now(),
	}

	if p.metrics != nil {
		p.metrics.ObserveSettle(req.Method.String(), time.Since(started))
		p.metrics.IncPayment(req.Method.String())
	}
	return receipt, nil
}
