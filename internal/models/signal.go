package models

import "strings"

// Signal: входящий сигнал из вебхука.
type Signal struct {
	Symbol string
	Price  float64
	Side   Side
}

// Side: сторона ордера в терминах Binance: "BUY"/"SELL".
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide нормализует строку из payload. Возвращает SideNone, если сторона неизвестна.
func ParseSide(raw string) Side {
	switch Side(strings.ToUpper(strings.TrimSpace(raw))) {
	case SideBuy:
		return SideBuy
	case SideSell:
		return SideSell
	default:
		return SideNone
	}
}

// Opposite: сторона закрывающего ордера.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideNone
	}
}

func (s Side) Valid() bool { return s == SideBuy || s == SideSell }
