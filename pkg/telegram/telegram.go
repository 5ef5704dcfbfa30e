package telegram

import (
	"context"
	"strconv"

	"golang-quant/config"
	"golang-quant/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier sends operator notifications (run summaries, batch failures)
// to the configured chat, globally rate limited.
type Notifier struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
}

func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *Notifier {
	perSecond := cfg.MaxGlobalRequestPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Notifier{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// Notify sends a Markdown message to the operator chat. A nil bot or a
// disabled config is a no-op so local runs work without a token.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if n.bot == nil || !n.cfg.Enabled {
		return nil
	}

	if err := n.globalLimiter.Wait(ctx); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(n.cfg.ChatID, 10, 64)
	if err != nil {
		n.log.ErrorContext(ctx, "Invalid telegram chat id", logger.StringField("chat_id", n.cfg.ChatID))
		return err
	}

	_, err = n.bot.Send(telebot.ChatID(chatID), message, telebot.ModeMarkdown)
	if err != nil {
		n.log.ErrorContext(ctx, "Failed to send telegram notification", logger.ErrorField(err))
	}
	return err
}
