package models

import (
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindPrecondition
	KindConflict
	KindGateway
	KindStream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	case KindGateway:
		return "gateway"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// TradeError: ошибка обработки сигнала. Message отдаётся клиенту как есть,
// Cause только логируется.
type TradeError struct {
	Kind    ErrorKind
	Code    string
	Status  int
	Message string
	Cause   error
}

func (e *TradeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return e.Code + ": " + e.Message
}

func (e *TradeError) Unwrap() error { return e.Cause }

// Is сравнивает по коду, чтобы errors.Is(err, ErrSymbolNotFound) работал
// для ошибок с подставленным символом.
func (e *TradeError) Is(target error) bool {
	t, ok := target.(*TradeError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// With возвращает копию ошибки с причиной.
func (e *TradeError) With(cause error) *TradeError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// Withf возвращает копию ошибки с отформатированным сообщением.
func (e *TradeError) Withf(args ...any) *TradeError {
	cp := *e
	cp.Message = fmt.Sprintf(e.Message, args...)
	return &cp
}

var (
	ErrMissingFields = &TradeError{
		Kind: KindValidation, Code: "MissingFields", Status: http.StatusBadRequest,
		Message: "Missing required fields: symbol, price, or side",
	}
	ErrInvalidSide = &TradeError{
		Kind: KindValidation, Code: "InvalidSide", Status: http.StatusBadRequest,
		Message: "Invalid side. Must be either BUY or SELL",
	}
	ErrInvalidPrice = &TradeError{
		Kind: KindValidation, Code: "InvalidPrice", Status: http.StatusBadRequest,
		Message: "Invalid price. Must be a positive number",
	}
	ErrPositionExists = &TradeError{
		Kind: KindConflict, Code: "PositionExists", Status: http.StatusConflict,
		Message: "Position already open for symbol %s",
	}
	ErrBalanceFetchFailed = &TradeError{
		Kind: KindGateway, Code: "BalanceFetchFailed", Status: http.StatusInternalServerError,
		Message: "Failed to fetch account balance",
	}
	ErrBalanceUnavailable = &TradeError{
		Kind: KindPrecondition, Code: "BalanceUnavailable", Status: http.StatusBadRequest,
		Message: "%s balance not available",
	}
	ErrInsufficientBalance = &TradeError{
		Kind: KindPrecondition, Code: "InsufficientBalance", Status: http.StatusBadRequest,
		Message: "Insufficient balance to open a position",
	}
	ErrQuantityTooSmall = &TradeError{
		Kind: KindPrecondition, Code: "QuantityTooSmall", Status: http.StatusBadRequest,
		Message: "Computed order quantity is below the symbol step size",
	}
	ErrExchangeInfoFailed = &TradeError{
		Kind: KindGateway, Code: "ExchangeInfoFailed", Status: http.StatusInternalServerError,
		Message: "Failed to fetch exchange info",
	}
	ErrSymbolNotFound = &TradeError{
		Kind: KindNotFound, Code: "SymbolNotFound", Status: http.StatusNotFound,
		Message: "Symbol %s not found in exchange info",
	}
	ErrFilterMissing = &TradeError{
		Kind: KindPrecondition, Code: "FilterMissing", Status: http.StatusInternalServerError,
		Message: "LOT_SIZE filter not found for the symbol",
	}
	ErrOrderPlacementFailed = &TradeError{
		Kind: KindGateway, Code: "OrderPlacementFailed", Status: http.StatusInternalServerError,
		Message: "Failed to place market order",
	}
	ErrStreamFailed = &TradeError{
		Kind: KindStream, Code: "StreamFailed", Status: http.StatusInternalServerError,
		Message: "Market stream failed for symbol %s",
	}
)
