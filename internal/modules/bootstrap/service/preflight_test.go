package service

import (
	"context"
	"testing"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExchange struct {
	balances []models.Balance
	info     *models.ExchangeInfo
	err      error
}

func (f *fakeExchange) GetBalances(context.Context) ([]models.Balance, error) {
	return f.balances, f.err
}

func (f *fakeExchange) GetExchangeInfo(context.Context) (*models.ExchangeInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func exchangeInfo() *models.ExchangeInfo {
	return &models.ExchangeInfo{Symbols: []models.SymbolInfo{
		{Symbol: "BTCUSDT", Filters: []models.SymbolFilter{{FilterType: models.FilterLotSize, StepSize: "0.001"}}},
		{Symbol: "ETHUSDT", Filters: []models.SymbolFilter{{FilterType: models.FilterLotSize, StepSize: "0.01"}}},
		{Symbol: "BROKEN"},
	}}
}

func TestPreflight_Report(t *testing.T) {
	ex := &fakeExchange{
		balances: []models.Balance{{Asset: "USDT", Balance: "250.5"}},
		info:     exchangeInfo(),
	}

	rep, err := NewPreflight(ex, "USDT").Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "250.5", rep.QuoteBalance.String())
	assert.Equal(t, 2, rep.Symbols)
}

func TestPreflight_Errors(t *testing.T) {
	_, err := NewPreflight(&fakeExchange{err: errors.New("401")}, "USDT").Run(context.Background())
	assert.ErrorContains(t, err, "preflight")

	_, err = NewPreflight(&fakeExchange{
		balances: []models.Balance{{Asset: "BNB", Balance: "1"}},
		info:     exchangeInfo(),
	}, "USDT").Run(context.Background())
	assert.ErrorContains(t, err, "no USDT balance")
}
