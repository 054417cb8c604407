package helper

import "strings"

// binanceIntervals: интервалы kline, которые принимает Binance futures.
var binanceIntervals = map[string]struct{}{
	"1m": {}, "3m": {}, "5m": {}, "15m": {}, "30m": {},
	"1h": {}, "2h": {}, "4h": {}, "6h": {}, "8h": {}, "12h": {},
	"1d": {}, "3d": {}, "1w": {}, "1M": {},
}

// NormInterval приводит интервал из конфига к виду Binance: "60m" -> "1h", "Candle5M" -> "5m".
// "1M" (месяц) регистр не теряет.
func NormInterval(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "1M" {
		return s
	}
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m":
		return "1h"
	case "120m":
		return "2h"
	case "240m":
		return "4h"
	case "24h":
		return "1d"
	case "7d":
		return "1w"
	default:
		return s
	}
}

func ValidInterval(s string) bool {
	_, ok := binanceIntervals[s]
	return ok
}
