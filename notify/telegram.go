package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	channelID int64

	// adminUsers may claim the admin chat with /start.
	adminUsers map[int64]bool

	mu          sync.RWMutex
	adminChatID int64
}

// NewTelegramNotifier authorizes the bot. An adminChatID of 0 is filled in by
// Listen when one of adminUsers sends /start.
func NewTelegramNotifier(token string, adminChatID, channelID int64, adminUsers map[int64]bool) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegramNotifier(bot, adminChatID, channelID, adminUsers), nil
}

func newTelegramNotifier(bot *tgbotapi.BotAPI, adminChatID, channelID int64, adminUsers map[int64]bool) *TelegramNotifier {
	log.Printf("🤖 [TELEGRAM] Bot authorized as @%s", bot.Self.UserName)
	if adminChatID == 0 && len(adminUsers) == 0 {
		log.Println("⚠️  [TELEGRAM] neither TELEGRAM_ADMIN_CHAT_ID nor TELEGRAM_ADMIN_IDS set, admin notifications are dropped")
	}
	return &TelegramNotifier{bot: bot, adminChatID: adminChatID, channelID: channelID, adminUsers: adminUsers}
}

// New returns a Telegram notifier when a bot token is set and a LogNotifier
// otherwise (or when the bot cannot be reached).
func New(token string, adminChatID, channelID int64, adminUsers map[int64]bool) Notifier {
	if token == "" {
		log.Println("⚠️  [TELEGRAM] TELEGRAM_BOT_TOKEN not set, notifications go to the log")
		return LogNotifier{}
	}
	n, err := NewTelegramNotifier(token, adminChatID, channelID, adminUsers)
	if err != nil {
		log.Printf("❌ [TELEGRAM] %v, notifications go to the log", err)
		return LogNotifier{}
	}
	return n
}

func (n *TelegramNotifier) AdminChatID() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.adminChatID
}

func (n *TelegramNotifier) NotifyAdmin(_ context.Context, text string) error {
	chatID := n.AdminChatID()
	if chatID == 0 {
		log.Printf("⚠️  [TELEGRAM] admin chat unknown, dropping: %s", text)
		return nil
	}
	return n.send(chatID, text)
}

func (n *TelegramNotifier) Broadcast(_ context.Context, text string) error {
	if n.channelID == 0 {
		log.Printf("⚠️  [TELEGRAM] channel not configured, dropping: %s", text)
		return nil
	}
	return n.send(n.channelID, text)
}

func (n *TelegramNotifier) send(chatID int64, text string) error {
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

// Listen registers the chat of an allowed admin who sends /start as the admin
// chat when none was configured. It returns when ctx is done.
func (n *TelegramNotifier) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := n.bot.GetUpdatesChan(u)
	defer n.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			n.handleUpdate(update)
		}
	}
}

func (n *TelegramNotifier) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() || update.Message.Command() != "start" {
		return
	}
	chatID := update.Message.Chat.ID
	if update.Message.From == nil || !n.adminUsers[update.Message.From.ID] {
		log.Printf("⚠️  [TELEGRAM] ignoring /start from non-admin chat %d", chatID)
		return
	}

	n.mu.Lock()
	registered := n.adminChatID == 0
	if registered {
		n.adminChatID = chatID
	}
	n.mu.Unlock()

	if !registered {
		return
	}
	log.Printf("✅ [TELEGRAM] Admin chat registered: %d", chatID)
	if err := n.send(chatID, fmt.Sprintf("Admin chat registered: %d. Deposit, withdrawal and feedback notifications will arrive here.", chatID)); err != nil {
		log.Printf("❌ [TELEGRAM] %v", err)
	}
}
