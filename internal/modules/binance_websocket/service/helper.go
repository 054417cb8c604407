package service

import (
	"strconv"
	"strings"
	"time"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
)

// StreamName: имя потока Binance: btcusdt@kline_1m.
func StreamName(symbol, interval string) string {
	return strings.ToLower(symbol) + "@kline_" + interval
}

type subscribeFrame struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// klineFrame: событие kline USDⓈ-M futures.
// Ключи отличаются только регистром (e/E, t/T, l/L ...), поэтому описаны все:
// иначе декодер сматчит их без учёта регистра.
type klineFrame struct {
	Event     string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Kline     struct {
		StartTime        int64  `json:"t"`
		CloseTime        int64  `json:"T"`
		Symbol           string `json:"s"`
		Interval         string `json:"i"`
		FirstTradeID     int64  `json:"f"`
		LastTradeID      int64  `json:"L"`
		Open             string `json:"o"`
		Close            string `json:"c"`
		High             string `json:"h"`
		Low              string `json:"l"`
		Volume           string `json:"v"`
		TradeNum         int64  `json:"n"`
		IsFinal          bool   `json:"x"`
		QuoteVolume      string `json:"q"`
		TakerBuyVolume   string `json:"V"`
		TakerBuyQuoteVol string `json:"Q"`
		Ignore           string `json:"B"`
	} `json:"k"`
}

// parseKline разбирает кадр. ok=false: это не kline (ответ на SUBSCRIBE и т.п.).
func parseKline(msg []byte) (models.CandleTick, bool, error) {
	var frame klineFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return models.CandleTick{}, false, err
	}
	if frame.Event != "kline" {
		return models.CandleTick{}, false, nil
	}

	k := frame.Kline
	open, err1 := strconv.ParseFloat(k.Open, 64)
	high, err2 := strconv.ParseFloat(k.High, 64)
	low, err3 := strconv.ParseFloat(k.Low, 64)
	closep, err4 := strconv.ParseFloat(k.Close, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.CandleTick{}, false, nil
	}
	vol, _ := strconv.ParseFloat(k.Volume, 64)

	symbol := k.Symbol
	if symbol == "" {
		symbol = frame.Symbol
	}

	return models.CandleTick{
		Symbol:   symbol,
		Interval: k.Interval,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closep,
		Volume:   vol,
		Start:    time.UnixMilli(k.StartTime),
		End:      time.UnixMilli(k.CloseTime),
		Closed:   k.IsFinal,
	}, true, nil
}
