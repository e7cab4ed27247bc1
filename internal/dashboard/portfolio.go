package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seenimoa/cleanmind/pkg/models"
	"github.com/seenimoa/cleanmind/pkg/utils"
)

// ErrInvalidHolding is returned when a new holding fails validation.
var ErrInvalidHolding = errors.New("invalid holding")

var hundred = decimal.NewFromInt(100)

// NewHolding builds a holding and derives its value and profit/loss from
// amount, buy price and current price. The percentage is rounded to two
// places.
func NewHolding(id, symbol, name string, amount, buyPrice, currentPrice decimal.Decimal, addedAt time.Time) models.PortfolioHolding {
	h := models.PortfolioHolding{
		ID:           id,
		Symbol:       symbol,
		Name:         name,
		Amount:       amount,
		BuyPrice:     buyPrice,
		CurrentPrice: currentPrice,
		AddedAt:      addedAt,
	}
	cost := amount.Mul(buyPrice)
	h.Value = amount.Mul(currentPrice)
	h.ProfitLoss = h.Value.Sub(cost)
	if !cost.IsZero() {
		h.ProfitLossPercent = h.ProfitLoss.Div(cost).Mul(hundred).Round(2)
	}
	return h
}

func seedHoldings(now time.Time) []models.PortfolioHolding {
	d := decimal.NewFromFloat
	return []models.PortfolioHolding{
		NewHolding("1", "BTC", "Bitcoin", d(0.5), d(45000), d(65000), now),
		NewHolding("2", "ETH", "Ethereum", d(2), d(3000), d(3500), now),
		NewHolding("3", "SOL", "Solana", d(10), d(100), d(80), now),
	}
}

// HoldingInput is a holding as entered on the portfolio form.
type HoldingInput struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	BuyPrice decimal.Decimal `json:"buy_price"`
}

// Validate requires a symbol and positive amount and buy price.
func (in HoldingInput) Validate() error {
	switch {
	case utils.NormalizeSymbol(in.Symbol) == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidHolding)
	case !in.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidHolding)
	case !in.BuyPrice.IsPositive():
		return fmt.Errorf("%w: buy price must be greater than zero", ErrInvalidHolding)
	}
	return nil
}

// PortfolioTotals aggregates every holding.
type PortfolioTotals struct {
	TotalValue        decimal.Decimal `json:"total_value"`
	TotalProfitLoss   decimal.Decimal `json:"total_profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"total_profit_loss_percentage"`
}

// Totals sums holdings. The percentage is profit/loss over cost basis
// (value minus profit/loss), zero when the total value is not positive.
func Totals(holdings []models.PortfolioHolding) PortfolioTotals {
	var t PortfolioTotals
	for _, h := range holdings {
		t.TotalValue = t.TotalValue.Add(h.Value)
		t.TotalProfitLoss = t.TotalProfitLoss.Add(h.ProfitLoss)
	}
	cost := t.TotalValue.Sub(t.TotalProfitLoss)
	if t.TotalValue.IsPositive() && !cost.IsZero() {
		t.ProfitLossPercent = t.TotalProfitLoss.Div(cost).Mul(hundred).Round(2)
	}
	return t
}

// Portfolio is the in-memory list of user holdings.
type Portfolio struct {
	mu       sync.RWMutex
	holdings []models.PortfolioHolding
	notify   notifier
}

// NewPortfolio returns a portfolio seeded with the demonstration holdings.
func NewPortfolio(onChange ChangeFunc) *Portfolio {
	return &Portfolio{
		holdings: seedHoldings(time.Now()),
		notify:   notifier{fn: onChange},
	}
}

// List returns a copy of the holdings in insertion order.
func (p *Portfolio) List() []models.PortfolioHolding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.holdings)
}

// Totals aggregates the current holdings.
func (p *Portfolio) Totals() PortfolioTotals {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Totals(p.holdings)
}

// Add validates in and appends a holding priced at its buy price.
func (p *Portfolio) Add(in HoldingInput) (models.PortfolioHolding, error) {
	if err := in.Validate(); err != nil {
		return models.PortfolioHolding{}, err
	}
	symbol := utils.NormalizeSymbol(in.Symbol)
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if name == "" {
		name = symbol
	}
	h := NewHolding(uuid.NewString(), symbol, name, in.Amount, in.BuyPrice, in.BuyPrice, time.Now())

	p.mu.Lock()
	p.holdings = append(p.holdings, h)
	p.mu.Unlock()
	p.notify.emit("portfolio", "add", h.ID, h)
	return h, nil
}

// Remove deletes the holding with id and reports whether it existed.
func (p *Portfolio) Remove(id string) bool {
	p.mu.Lock()
	n := len(p.holdings)
	p.holdings = slices.DeleteFunc(p.holdings, func(h models.PortfolioHolding) bool { return h.ID == id })
	removed := len(p.holdings) != n
	p.mu.Unlock()
	if removed {
		p.notify.emit("portfolio", "remove", id, nil)
	}
	return removed
}
