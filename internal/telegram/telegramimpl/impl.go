package telegramimpl

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/omnipost/internal/telegram"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	User   int64
}

// New connects the bot. Without a token it returns a disabled client so the
// rest of the app runs without notifications.
func New(opts Opts) (*TelegramImpl, error) {
	return newWithEndpoint(opts, tgbotapi.APIEndpoint, &http.Client{})
}

func newWithEndpoint(opts Opts, endpoint string, client *http.Client) (*TelegramImpl, error) {
	log := opts.Logger.WithComponent("Telegram")
	tg := &TelegramImpl{Logger: log, User: opts.Config.Telegram.User}

	if opts.Config.Telegram.Token == "" {
		log.Info("No bot token configured, notifications disabled")
		return tg, nil
	}

	tgBot, err := tgbotapi.NewBotAPIWithClient(opts.Config.Telegram.Token, endpoint, client)
	if err != nil {
		log.Error("Error creating bot", "Error", err)
		return nil, err
	}
	tg.TgBot = tgBot
	log.Info("Authorized bot", "username", tgBot.Self.UserName)
	return tg, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) Enabled() bool {
	return tg.TgBot != nil
}
