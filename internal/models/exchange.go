package models

const (
	FilterLotSize   = "LOT_SIZE"
	OrderTypeMarket = "MARKET"
)

// Balance: запись баланса фьючерсного аккаунта, строки как их отдаёт биржа.
type Balance struct {
	Asset            string `json:"asset"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"availableBalance"`
}

type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol  string         `json:"symbol"`
	Filters []SymbolFilter `json:"filters"`
}

type SymbolFilter struct {
	FilterType string `json:"filterType"`
	StepSize   string `json:"stepSize,omitempty"`
}

// Symbol ищет символ в метаданных биржи.
func (e *ExchangeInfo) Symbol(symbol string) (SymbolInfo, bool) {
	if e == nil {
		return SymbolInfo{}, false
	}
	for _, s := range e.Symbols {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return SymbolInfo{}, false
}

// StepSize возвращает stepSize из LOT_SIZE фильтра.
func (s SymbolInfo) StepSize() (string, bool) {
	for _, f := range s.Filters {
		if f.FilterType == FilterLotSize && f.StepSize != "" {
			return f.StepSize, true
		}
	}
	return "", false
}

type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          string
	Quantity      string
	ClientOrderID string
	ReduceOnly    bool
}

// OrderResult: ответ биржи на создание ордера, уходит клиенту как orderResponse.
type OrderResult struct {
	Symbol           string `json:"symbol"`
	OrderID          int64  `json:"orderId"`
	ClientOrderID    string `json:"clientOrderId"`
	Side             string `json:"side"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	OrigQuantity     string `json:"origQty"`
	ExecutedQuantity string `json:"executedQty"`
	ReduceOnly       bool   `json:"reduceOnly"`
	UpdateTime       int64  `json:"updateTime"`
}
