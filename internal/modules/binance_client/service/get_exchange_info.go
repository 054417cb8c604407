package service

import (
	"context"

	"signal_bot/internal/models"
)

// GetExchangeInfo: GET /fapi/v1/exchangeInfo. Не кэшируем: берём свежие фильтры на каждый сигнал.
func (c *Client) GetExchangeInfo(ctx context.Context) (*models.ExchangeInfo, error) {
	res, err := c.api.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, wrapAPIError(err, "exchangeInfo")
	}

	info := &models.ExchangeInfo{Symbols: make([]models.SymbolInfo, 0, len(res.Symbols))}
	for _, s := range res.Symbols {
		si := models.SymbolInfo{
			Symbol:  s.Symbol,
			Filters: make([]models.SymbolFilter, 0, len(s.Filters)),
		}
		for _, f := range s.Filters {
			si.Filters = append(si.Filters, models.SymbolFilter{
				FilterType: stringField(f, "filterType"),
				StepSize:   stringField(f, "stepSize"),
			})
		}
		info.Symbols = append(info.Symbols, si)
	}
	return info, nil
}

// фильтры у go-binance: map[string]interface{}
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
