package bot

import (
	"context"
	"os"

	"order-relay-bot/internal/storage"
	"order-relay-bot/pkg/ozon"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// isAdmin accepts either the sender or the chat. No admin means nobody.
func (b *Bot) isAdmin(userID, chatID int64) bool {
	if b.adminChatID == 0 {
		return false
	}
	return userID == b.adminChatID || chatID == b.adminChatID
}

func (b *Bot) requireAdmin(msg *tgbotapi.Message) bool {
	if b.isAdmin(msg.From.ID, msg.Chat.ID) {
		return true
	}

	b.logger.Warn("Admin command refused",
		zap.Int64("user_id", msg.From.ID),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("text", msg.Text))
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, adminOnlyText))
	return false
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}

	orders, err := b.store.ListRecentOrders(ctx, historyLimit)
	if err != nil {
		b.logger.Error("Failed to list recent orders", zap.Error(err))
		b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, historyFailedText))
		return
	}

	if len(orders) == 0 {
		b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, historyEmptyText))
		return
	}

	b.sendText(msg.Chat.ID, FormatHistory(orders))
}

func (b *Bot) handleOzonOrders(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}

	if b.ozon == nil {
		b.sendError(msg.Chat.ID, "Интеграция с Ozon не настроена.")
		return
	}

	resp, err := b.ozon.ListPostings(ctx, ozon.ListRequest{
		Dir:    "asc",
		Limit:  ozonListLimit,
		Offset: 0,
	})
	if err != nil {
		b.logger.Error("Failed to fetch Ozon postings", zap.Error(err))
		b.sendError(msg.Chat.ID, "Ошибка при запросе к Ozon API.")
		return
	}

	b.sendText(msg.Chat.ID, FormatPostings(resp.Result))
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	if !b.requireAdmin(msg) {
		return
	}

	orders, err := b.store.ListRecentOrders(ctx, exportLimit)
	if err != nil {
		b.logger.Error("Failed to list orders for export", zap.Error(err))
		b.sendError(msg.Chat.ID, "Не удалось выгрузить заказы.")
		return
	}

	path, err := storage.ExportOrdersToExcel(orders, b.reportsDir)
	if err != nil {
		b.logger.Error("Failed to export orders", zap.Error(err))
		b.sendError(msg.Chat.ID, "Не удалось выгрузить заказы.")
		return
	}
	defer b.removeReport(path)

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(path))
	doc.Caption = exportCaption

	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file",
			zap.String("path", path),
			zap.Error(err))
		b.sendError(msg.Chat.ID, "Не удалось отправить файл.")
	}
}

// removeReport deletes an export once Telegram has the upload.
func (b *Bot) removeReport(path string) {
	if err := os.Remove(path); err != nil {
		b.logger.Warn("Failed to remove export file",
			zap.String("path", path),
			zap.Error(err))
	}
}
