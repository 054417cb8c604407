package service

import (
	"context"
	"fmt"

	"signal_bot/internal/models"

	"github.com/adshao/go-binance/v2/futures"
)

// SubmitOrder: POST /fapi/v1/order.
func (c *Client) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	if !req.Side.Valid() {
		return nil, fmt.Errorf("SubmitOrder: unsupported side=%q", req.Side)
	}
	if req.Quantity == "" {
		return nil, fmt.Errorf("SubmitOrder: empty quantity")
	}
	orderType := req.Type
	if orderType == "" {
		orderType = models.OrderTypeMarket
	}

	svc := c.api.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(futures.SideType(req.Side)).
		Type(futures.OrderType(orderType)).
		Quantity(req.Quantity)
	if req.ClientOrderID != "" {
		svc = svc.NewClientOrderID(req.ClientOrderID)
	}
	if req.ReduceOnly {
		svc = svc.ReduceOnly(true)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, wrapAPIError(err, "order")
	}

	return &models.OrderResult{
		Symbol:           res.Symbol,
		OrderID:          res.OrderID,
		ClientOrderID:    res.ClientOrderID,
		Side:             string(res.Side),
		Type:             string(res.Type),
		Status:           string(res.Status),
		OrigQuantity:     res.OrigQuantity,
		ExecutedQuantity: res.ExecutedQuantity,
		ReduceOnly:       res.ReduceOnly,
		UpdateTime:       res.UpdateTime,
	}, nil
}
