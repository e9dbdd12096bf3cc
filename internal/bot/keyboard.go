package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BOT KEYBOARDS

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/"+commandOrder),
			tgbotapi.NewKeyboardButton("/"+commandFAQ),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
