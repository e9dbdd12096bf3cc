package bot

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NotifyError wraps a failed delivery to the administrator chat.
type NotifyError struct {
	ChatID int64
	Err    error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify chat %d: %v", e.ChatID, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// Notifier sends fire-and-forget messages to the administrator chat.
type Notifier struct {
	sender Sender
	chatID int64
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Notify returns immediately. Delivery failures are only logged.
func (n *Notifier) Notify(text string) {
	if n.chatID == 0 {
		n.logger.Debug("Admin notifications disabled - no admin chat configured")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if err := n.send(text); err != nil {
			n.logger.Error("Failed to send admin notification", zap.Error(err))
		}
	}()
}

// Wait blocks until every queued notification has been attempted.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		return &NotifyError{ChatID: n.chatID, Err: err}
	}
	return nil
}
