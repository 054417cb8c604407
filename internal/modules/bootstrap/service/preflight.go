package service

import (
	"context"
	"sync"

	"signal_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Exchange: то, что preflight дёргает у REST-клиента.
type Exchange interface {
	GetBalances(ctx context.Context) ([]models.Balance, error)
	GetExchangeInfo(ctx context.Context) (*models.ExchangeInfo, error)
}

// Report: итог проверки на старте.
type Report struct {
	QuoteAsset   string
	QuoteBalance decimal.Decimal
	Symbols      int // символов с LOT_SIZE
}

type Preflight struct {
	ex         Exchange
	quoteAsset string
}

func NewPreflight(ex Exchange, quoteAsset string) *Preflight {
	return &Preflight{ex: ex, quoteAsset: quoteAsset}
}

// Run параллельно забирает баланс и exchangeInfo и проверяет, что торговать есть чем.
// Сигналы от этого не зависят: каждый вебхук всё равно перечитывает оба.
func (p *Preflight) Run(ctx context.Context) (Report, error) {
	var (
		wg       sync.WaitGroup
		balances []models.Balance
		info     *models.ExchangeInfo
		balErr   error
		infoErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		balances, balErr = p.ex.GetBalances(ctx)
	}()
	go func() {
		defer wg.Done()
		info, infoErr = p.ex.GetExchangeInfo(ctx)
	}()
	wg.Wait()

	rep := Report{QuoteAsset: p.quoteAsset}
	if balErr != nil {
		return rep, errors.Wrap(balErr, "preflight balance")
	}
	if infoErr != nil {
		return rep, errors.Wrap(infoErr, "preflight exchange info")
	}

	found := false
	for _, b := range balances {
		if b.Asset != p.quoteAsset {
			continue
		}
		v, err := decimal.NewFromString(b.Balance)
		if err != nil {
			return rep, errors.Wrapf(err, "preflight %s balance %q", p.quoteAsset, b.Balance)
		}
		rep.QuoteBalance = v
		found = true
		break
	}

	for _, s := range info.Symbols {
		if _, ok := s.StepSize(); ok {
			rep.Symbols++
		}
	}

	if !found {
		return rep, errors.Errorf("preflight: no %s balance on the account", p.quoteAsset)
	}
	return rep, nil
}
