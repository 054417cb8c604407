package notify

import (
	"context"
	"fmt"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// PositionLister: источник для команды /positions.
type PositionLister interface {
	Snapshot() []models.OpenPosition
}

// Telegram: пассивный нотифайер + команда /positions по реестру бота.
type Telegram struct {
	bot       *tgbot.BotAPI
	chatID    int64
	positions PositionLister
}

func NewTelegram(token string, chatID int64, positions PositionLister) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newTelegram(b, chatID, positions), nil
}

func newTelegram(b *tgbot.BotAPI, chatID int64, positions PositionLister) *Telegram {
	return &Telegram{
		bot:       b,
		chatID:    chatID,
		positions: positions,
	}
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("[TG] send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /positions: что бот сейчас держит
func (t *Telegram) handlePositions() {
	if t.positions == nil {
		t.Send("❗️ Реестр позиций не подключён")
		return
	}
	t.Send(FormatPositions(t.positions.Snapshot()))
}

// FormatPositions: текст ответа на /positions.
func FormatPositions(positions []models.OpenPosition) string {
	if len(positions) == 0 {
		return "📭 Открытых позиций нет"
	}

	var b strings.Builder
	b.WriteString("📊 Открытые позиции:\n")
	for _, p := range positions {
		fmt.Fprintf(&b, "- %s [%s] qty=%s state=%s since %s\n",
			p.Symbol, p.EntrySide, p.Quantity, p.State, p.OpenedAt.UTC().Format("15:04:05"))
	}
	return b.String()
}

// Start: long-polling, только команды из своего чата.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "positions":
					go t.handlePositions()
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Stdout: нотифайер без Telegram: всё уходит в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("[NOTIFY] %s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
