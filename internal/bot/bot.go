package bot

import (
	"context"
	"strings"
	"sync"

	"order-relay-bot/internal/bot/state_manager"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Bot struct {
	api          UpdatesSource
	sender       Sender
	logger       *zap.Logger
	conversation *state_manager.Conversation
	store        OrderStore
	notifier     *Notifier
	ozon         PostingsFetcher
	adminChatID  int64
	reportsDir   string
	mu           sync.Mutex
	commands     map[string]func(context.Context, *tgbotapi.Message)
}

type Dependencies struct {
	API          UpdatesSource
	Sender       Sender
	Logger       *zap.Logger
	Conversation *state_manager.Conversation
	Store        OrderStore
	Notifier     *Notifier
	// Ozon is optional; /ozonorders reports the integration as disabled without it.
	Ozon        PostingsFetcher
	AdminChatID int64
	ReportsDir  string
}

func New(deps Dependencies) *Bot {
	b := &Bot{
		api:          deps.API,
		sender:       deps.Sender,
		logger:       deps.Logger,
		conversation: deps.Conversation,
		store:        deps.Store,
		notifier:     deps.Notifier,
		ozon:         deps.Ozon,
		adminChatID:  deps.AdminChatID,
		reportsDir:   deps.ReportsDir,
	}

	b.registerCommands()
	return b
}

func (b *Bot) registerCommands() {
	b.commands = map[string]func(context.Context, *tgbotapi.Message){
		commandStart:      b.handleStart,
		commandHelp:       b.handleHelp,
		commandOrder:      b.handleOrder,
		commandFAQ:        b.handleFAQ,
		commandHistory:    b.handleHistory,
		commandOzonOrders: b.handleOzonOrders,
		commandExport:     b.handleExport,
	}
}

// Start consumes Telegram updates until ctx is cancelled. Updates are
// handled one at a time.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Updates channel closed")
				return nil
			}
			b.mu.Lock()
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			}
			b.mu.Unlock()
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Int64("user_id", msg.From.ID),
		zap.String("text", msg.Text))

	if strings.HasPrefix(msg.Text, state_manager.CommandPrefix) {
		b.handleCommand(ctx, msg)
		return
	}

	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	name := commandName(msg)
	if handler, exists := b.commands[name]; exists {
		handler(ctx, msg)
		return
	}
	b.handleUnknownCommand(ctx, msg)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageRunes) {
		b.sendMessage(tgbotapi.NewMessage(chatID, chunk))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

// commandName prefers Telegram's entity parsing and falls back to the raw
// text, so "/order@relay_bot now" yields "order".
func commandName(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return msg.Command()
	}

	name := strings.TrimPrefix(msg.Text, state_manager.CommandPrefix)
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	return name
}
