package bot

import (
	"strings"
	"testing"
	"time"

	"order-relay-bot/pkg/models"
	"order-relay-bot/pkg/ozon"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestFormatHistory(t *testing.T) {
	uid := int64(42)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	got := FormatHistory([]models.Order{
		{ID: 2, UserID: nil, SideOne: "OZON Order: 9", SideTwo: "Buyer: X\nItems: 1", Status: models.StatusOzon, Source: models.SourceOzon, CreatedAt: created},
		{ID: 1, UserID: &uid, SideOne: "a", SideTwo: "b", Status: models.StatusPending, Source: models.SourceTelegram, CreatedAt: created},
	})

	want := "🗂 Последние 10 заказов:\n" +
		"ID: 2, Пользователь: ozon, Лице: OZON Order: 9, Оборот: Buyer: X\nItems: 1, Статус: ozon, 2025-01-02 03:04:05\n\n" +
		"ID: 1, Пользователь: 42, Лице: a, Оборот: b, Статус: pending, 2025-01-02 03:04:05"
	assert.Equal(t, want, got)
}

func TestFormatPostings(t *testing.T) {
	assert.Equal(t, postingsEmptyText, FormatPostings(nil))

	got := FormatPostings([]ozon.Posting{
		{PostingNumber: "P-1", Status: "delivering", Products: []ozon.Product{{}, {}}, Customer: &ozon.Customer{Name: "Анна"}},
		{PostingNumber: "P-2", Status: "awaiting_packaging"},
	})
	assert.Equal(t, "📦 Заказы Ozon (2):\n"+
		"• P-1, статус: delivering, покупатель: Анна, товаров: 2\n"+
		"• P-2, статус: awaiting_packaging, покупатель: Не указан, товаров: 0", got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "ivan", displayName(&tgbotapi.User{UserName: "ivan", FirstName: "Иван"}))
	assert.Equal(t, "Иван", displayName(&tgbotapi.User{FirstName: "Иван"}))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	text := strings.Repeat("строка\n", 5)
	chunks := splitMessage(text, 15)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 15)
	}
	assert.Equal(t, strings.Count(text, "строка"), strings.Count(strings.Join(chunks, "\n"), "строка"))

	long := strings.Repeat("я", 25)
	assert.Equal(t, []string{strings.Repeat("я", 10), strings.Repeat("я", 10), strings.Repeat("я", 5)}, splitMessage(long, 10))
}
