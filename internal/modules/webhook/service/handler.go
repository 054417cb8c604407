package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgPlaced = "Market order placed successfully"

// SignalHandler: раннер с точки зрения вебхука.
type SignalHandler interface {
	HandleSignal(ctx context.Context, sig models.Signal) (*models.OrderResult, error)
}

// payload: тело POST /webhook. Указатели, чтобы отличить "нет поля" от нуля.
type payload struct {
	Symbol *string  `json:"symbol"`
	Price  *float64 `json:"price"`
	Side   *string  `json:"side"`
}

// parseSignal проверяет payload до любых обращений к бирже.
func parseSignal(p payload) (models.Signal, *models.TradeError) {
	if p.Symbol == nil || strings.TrimSpace(*p.Symbol) == "" ||
		p.Price == nil || *p.Price == 0 ||
		p.Side == nil || strings.TrimSpace(*p.Side) == "" {
		return models.Signal{}, models.ErrMissingFields
	}

	side := models.ParseSide(*p.Side)
	if !side.Valid() {
		return models.Signal{}, models.ErrInvalidSide
	}
	if *p.Price < 0 {
		return models.Signal{}, models.ErrInvalidPrice
	}

	return models.Signal{
		Symbol: strings.ToUpper(strings.TrimSpace(*p.Symbol)),
		Price:  *p.Price,
		Side:   side,
	}, nil
}

type Handler struct {
	signals SignalHandler
}

func NewHandler(signals SignalHandler) *Handler {
	return &Handler{signals: signals}
}

// Register вешает POST /webhook на роутер.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/webhook", h.webhook)
}

func (h *Handler) webhook(c *gin.Context) {
	started := time.Now()

	var p payload
	if err := c.ShouldBindJSON(&p); err != nil {
		logger.Warn("[WEBHOOK] bad body: %v", err)
		h.fail(c, models.ErrMissingFields)
		return
	}

	sig, te := parseSignal(p)
	if te != nil {
		logger.Warn("[WEBHOOK] rejected: %s", te.Message)
		h.fail(c, te)
		return
	}

	logger.Info("[WEBHOOK] %s %s @ %.8g", sig.Symbol, sig.Side, sig.Price)

	res, err := h.signals.HandleSignal(c.Request.Context(), sig)
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.Info("[WEBHOOK] %s %s done in %s, orderId=%d", sig.Symbol, sig.Side, time.Since(started), res.OrderID)
	h.respond(c, http.StatusOK, gin.H{
		"message":       msgPlaced,
		"orderResponse": res,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	var te *models.TradeError
	if errors.As(err, &te) {
		status, msg = te.Status, te.Message
	} else {
		logger.Error("[WEBHOOK] unexpected error: %v", err)
	}
	h.respond(c, status, gin.H{"error": msg})
}

func (h *Handler) respond(c *gin.Context, status int, body gin.H) {
	metrics.WebhookRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.JSON(status, body)
}
