package bot

import (
	"context"
	"fmt"

	"order-relay-bot/internal/bot/state_manager"
	"order-relay-bot/pkg/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleStart(_ context.Context, msg *tgbotapi.Message) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(startText, msg.From.FirstName))
	reply.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(reply)
}

func (b *Bot) handleHelp(_ context.Context, msg *tgbotapi.Message) {
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, commandListText))
}

func (b *Bot) handleFAQ(_ context.Context, msg *tgbotapi.Message) {
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, faqText))
}

// handleOrder opens a new conversation, discarding any unfinished one.
func (b *Bot) handleOrder(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.conversation.Start(ctx, msg.From.ID); err != nil {
		b.logger.Error("Failed to start order conversation",
			zap.Int64("user_id", msg.From.ID),
			zap.Error(err))
		b.sendError(msg.Chat.ID, "Не удалось начать оформление заказа. Попробуйте позже.")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, sideOnePrompt))
}

func (b *Bot) handleUnknownCommand(_ context.Context, msg *tgbotapi.Message) {
	b.sendError(msg.Chat.ID, "Неизвестная команда. Список команд: /help")
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	out, err := b.conversation.Answer(ctx, userID, msg.Text)
	if err != nil {
		b.logger.Error("Failed to process conversation answer",
			zap.Int64("user_id", userID),
			zap.Error(err))
		b.sendError(msg.Chat.ID, "Ошибка при обработке запроса")
		return
	}

	switch {
	case !out.Consumed:
		b.logger.Debug("Ignoring text outside of a conversation",
			zap.Int64("user_id", userID))
	case !out.Completed:
		b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, sideTwoPrompt))
	default:
		b.completeOrder(ctx, msg, out)
	}
}

// completeOrder runs after the conversation is already cleared, so a failed
// write leaves the user free to start over.
func (b *Bot) completeOrder(ctx context.Context, msg *tgbotapi.Message, out state_manager.Outcome) {
	userID := msg.From.ID

	orderID, err := b.store.CreateOrder(ctx, models.Order{
		UserID:  &userID,
		SideOne: out.SideOne,
		SideTwo: out.SideTwo,
		Status:  models.StatusPending,
		Source:  models.SourceTelegram,
	})
	if err != nil {
		b.logger.Error("Failed to create order",
			zap.Int64("user_id", userID),
			zap.Error(err))
		b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, orderFailedText))
		return
	}

	b.logger.Info("Order created",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", userID))

	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, orderAcceptedText))
	b.notifier.Notify(FormatOrderNotification(displayName(msg.From), userID, out.SideOne, out.SideTwo))
}
