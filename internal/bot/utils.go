package bot

import (
	"fmt"
	"strconv"
	"strings"

	"order-relay-bot/pkg/models"
	"order-relay-bot/pkg/ozon"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// FormatOrderNotification is the admin message for an order placed in chat.
func FormatOrderNotification(name string, userID int64, sideOne, sideTwo string) string {
	return fmt.Sprintf("Новый заказ от %s (ID: %d):\nЛице: %s\nОборот: %s", name, userID, sideOne, sideTwo)
}

func FormatHistory(orders []models.Order) string {
	var sb strings.Builder
	sb.WriteString(historyHeader)
	sb.WriteString("\n")

	for _, order := range orders {
		fmt.Fprintf(&sb, "ID: %d, Пользователь: %s, Лице: %s, Оборот: %s, Статус: %s, %s\n\n",
			order.ID,
			formatUser(order),
			order.SideOne,
			order.SideTwo,
			order.Status,
			order.CreatedAt.Format(historyTimeLayout),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatUser shows the order source for orders without a chat user.
func formatUser(order models.Order) string {
	if order.UserID == nil {
		return string(order.Source)
	}
	return strconv.FormatInt(*order.UserID, 10)
}

func FormatPostings(postings []ozon.Posting) string {
	if len(postings) == 0 {
		return postingsEmptyText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, postingsHeader, len(postings))
	sb.WriteString("\n")

	for _, p := range postings {
		buyer := "Не указан"
		if p.Customer != nil && p.Customer.Name != "" {
			buyer = p.Customer.Name
		}
		fmt.Fprintf(&sb, "• %s, статус: %s, покупатель: %s, товаров: %d\n",
			p.PostingNumber, p.Status, buyer, len(p.Products))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// line breaks.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
