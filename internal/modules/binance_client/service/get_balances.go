package service

import (
	"context"

	"signal_bot/internal/models"
)

// GetBalances: GET /fapi/v2/balance.
func (c *Client) GetBalances(ctx context.Context) ([]models.Balance, error) {
	res, err := c.api.NewGetBalanceService().Do(ctx)
	if err != nil {
		return nil, wrapAPIError(err, "balance")
	}

	out := make([]models.Balance, 0, len(res))
	for _, b := range res {
		if b == nil {
			continue
		}
		out = append(out, models.Balance{
			Asset:            b.Asset,
			Balance:          b.Balance,
			AvailableBalance: b.AvailableBalance,
		})
	}
	return out, nil
}
