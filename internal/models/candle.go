package models

import "time"

type CandleTick struct {
	Symbol   string
	Interval string
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Start    time.Time
	End      time.Time
	Closed   bool // свеча закрыта (kline "x")
}

type StreamEventKind int

const (
	StreamConnected StreamEventKind = iota
	StreamCandle
	StreamError
)

func (k StreamEventKind) String() string {
	switch k {
	case StreamConnected:
		return "connected"
	case StreamCandle:
		return "candle"
	case StreamError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamEvent: сообщение подписки. Закрытие канала означает, что соединение закрыто.
type StreamEvent struct {
	Kind   StreamEventKind
	Candle CandleTick
	Err    error
}
