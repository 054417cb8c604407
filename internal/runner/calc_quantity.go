package runner

import (
	"strings"

	"signal_bot/internal/models"

	"github.com/shopspring/decimal"
)

// DecimalsOf: сколько знаков после точки допускает stepSize.
// Хвостовые нули не считаются намеренно: "0.00100000" -> 3, "1" -> 0, "1.0" -> 0.
// Binance отдаёт stepSize как "0.00100000", и quantity с 8 знаками биржа отклонит.
func DecimalsOf(stepSize string) int {
	s := strings.TrimSpace(stepSize)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(s[i+1:], "0"))
}

// CalcQuantity считает объём рыночного ордера:
//
//	qty = round((balance - reserve) * leverage / price, DecimalsOf(stepSize))
//
// Результат: строка ровно с DecimalsOf(stepSize) знаками после точки, как ждёт биржа.
func CalcQuantity(
	balance decimal.Decimal,
	reserve decimal.Decimal,
	leverage int,
	price decimal.Decimal,
	stepSize string,
) (string, error) {
	if !price.IsPositive() {
		return "", models.ErrInvalidPrice
	}

	usable := balance.Sub(reserve)
	if !usable.IsPositive() {
		return "", models.ErrInsufficientBalance
	}

	lev := int64(leverage)
	if lev <= 0 {
		lev = 1
	}

	places := int32(DecimalsOf(stepSize))
	qty := usable.
		Mul(decimal.NewFromInt(lev)).
		Div(price).
		Round(places)

	if !qty.IsPositive() {
		return "", models.ErrQuantityTooSmall
	}
	return qty.StringFixed(places), nil
}
