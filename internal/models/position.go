package models

import "time"

type PositionState string

const (
	StateEntryPending PositionState = "ENTRY_PENDING"
	StateStreaming    PositionState = "STREAMING"
	StateClosePending PositionState = "CLOSE_PENDING"
)

// OpenPosition: позиция, открытая ботом по символу и ожидающая закрытия по свече.
type OpenPosition struct {
	Symbol        string        `json:"symbol"`
	EntrySide     Side          `json:"entrySide"`
	Quantity      string        `json:"quantity"` // уже округлено под stepSize
	EntryOrderID  int64         `json:"entryOrderId"`
	ClientOrderID string        `json:"clientOrderId"` // владелец записи в реестре
	State         PositionState `json:"state"`
	OpenedAt      time.Time     `json:"openedAt"`
}
