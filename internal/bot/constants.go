package bot

const (
	historyLimit    = 10
	exportLimit     = 1000
	ozonListLimit   = 10
	maxMessageRunes = 4096
)

const (
	commandStart      = "start"
	commandHelp       = "help"
	commandOrder      = "order"
	commandFAQ        = "faq"
	commandHistory    = "history"
	commandOzonOrders = "ozonorders"
	commandExport     = "export"
)

const (
	startText = `Привет, %s! Я бот для приёма заказов и интеграции с Ozon API.

` + commandListText

	commandListText = `Команды:
• /order – оформить заказ через Telegram.
• /faq – часто задаваемые вопросы.
• /history – последние заказы.
• /ozonorders – ручной запрос к Ozon (админ).
• /export – выгрузка заказов в Excel (админ).`

	faqText = `📌 FAQ:
1. Как сделать заказ? – Используйте /order.
2. Как проверить статус заказа? – Функция в разработке.
3. По вопросам – пишите в поддержку.`

	sideOnePrompt = "Введите, пожалуйста, что вы хотите видеть на ЛИЦЕ (первая сторона):"
	sideTwoPrompt = "Введите, пожалуйста, что вы хотите видеть на ОБОРОТЕ (вторая сторона):"

	orderAcceptedText = "✅ Ваш заказ принят!"
	orderFailedText   = "❌ Произошла ошибка при оформлении заказа. Попробуйте повторить позже."

	adminOnlyText     = "Эта команда доступна только администратору."
	historyHeader     = "🗂 Последние 10 заказов:"
	historyEmptyText  = "Заказов пока нет."
	historyFailedText = "Не удалось получить историю заказов."

	postingsHeader    = "📦 Заказы Ozon (%d):"
	postingsEmptyText = "Заказов на Ozon не найдено."
	exportCaption     = "📊 Выгрузка заказов"
)
