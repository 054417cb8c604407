package service

import (
	"net/http"
	"strings"
	"time"

	"signal_bot/internal/modules/config"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
)

// Client: REST-шлюз к Binance USDⓈ-M futures: баланс, exchangeInfo, ордера.
type Client struct {
	api *futures.Client
}

func NewClient(cfg *config.Config) *Client {
	// futures.UseTestnet читается в NewClient при выборе BaseURL
	futures.UseTestnet = cfg.Binance.Testnet

	api := futures.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret)
	api.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	if base := strings.TrimRight(cfg.Binance.BaseURL, "/"); base != "" {
		api.BaseURL = base
	}

	return &Client{api: api}
}

// wrapAPIError сохраняет код/сообщение Binance в тексте ошибки.
func wrapAPIError(err error, op string) error {
	if common.IsAPIError(err) {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			return errors.Wrapf(err, "binance %s: code=%d", op, apiErr.Code)
		}
	}
	return errors.Wrapf(err, "binance %s", op)
}
