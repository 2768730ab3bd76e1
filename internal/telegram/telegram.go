package telegram

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrDisabled is returned by every send when no bot token is configured.
var ErrDisabled = errors.New("telegram notifications are disabled")

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	Enabled() bool

	SendMessage(chatID int64, text string) (int, error)
	// SendMarkdown sends text already escaped for MarkdownV2.
	SendMarkdown(chatID int64, text string) (int, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error)
	EditMessageText(chatID int64, messageID int, text string) error
	SendPhotoByURL(chatID int64, url, caption string) error
	AnswerCallback(callbackID, text string) error

	SendMessageToUser(text string)

	GetUpdatesChan(u tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
	StopReceivingUpdates()
}
