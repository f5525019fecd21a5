// Package telegram delivers reminders to a Telegram chat and reports the
// user pressing the "Taken" button back as tap events.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// tapPrefix marks callback data carrying a "dose taken" acknowledgement:
// "taken:<scheduleID>:<slot>".
const tapPrefix = "taken:"

// Notifier implements device.Sender over the Telegram Bot API.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger

	mu  sync.RWMutex
	tap func(scheduleID, slot string)
}

// New authenticates the bot and returns a Notifier bound to one chat.
func New(token string, chatID int64, log *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false
	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

// Send delivers one fired reminder with an inline "Taken" button.
func (n *Notifier) Send(pn domain.PlannedNotification) error {
	msg := tgbotapi.NewMessage(n.chatID, pn.Title+"\n"+pn.Body)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Taken",
				fmt.Sprintf("%s%s:%s", tapPrefix, pn.ScheduleID, pn.Slot)),
		),
	)
	_, err := n.bot.Send(msg)
	return err
}

// OnTap registers the callback invoked when the user presses "Taken".
func (n *Notifier) OnTap(fn func(scheduleID, slot string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tap = fn
}

// Run consumes updates until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := n.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			n.bot.StopReceivingUpdates()
			return
		case upd := <-updates:
			n.handle(upd)
		}
	}
}

func (n *Notifier) handle(upd tgbotapi.Update) {
	if upd.CallbackQuery == nil {
		return
	}
	cb := upd.CallbackQuery
	if !strings.HasPrefix(cb.Data, tapPrefix) {
		return
	}
	payload := strings.TrimPrefix(cb.Data, tapPrefix)
	// Slot names carry no colon; split it off the right so opaque schedule
	// ids may contain one.
	idx := strings.LastIndex(payload, ":")
	if idx <= 0 || idx == len(payload)-1 {
		n.log.Warn("malformed tap payload", zap.String("data", cb.Data))
		return
	}
	scheduleID, slot := payload[:idx], payload[idx+1:]

	// Ack so the button spinner clears even if the listener is slow.
	if _, err := n.bot.Request(tgbotapi.NewCallback(cb.ID, "Logged")); err != nil {
		n.log.Warn("callback ack failed", zap.Error(err))
	}

	n.mu.RLock()
	fn := n.tap
	n.mu.RUnlock()
	if fn != nil {
		fn(scheduleID, slot)
	}
}
