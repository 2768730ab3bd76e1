package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/omnipost/internal/telegram"
)

// SendMessage sends a plain text message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	return tg.send(chatID, tgbotapi.NewMessage(chatID, text))
}

// SendMarkdown sends a MarkdownV2 formatted message.
func (tg *TelegramImpl) SendMarkdown(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return tg.send(chatID, msg)
}

func (tg *TelegramImpl) send(chatID int64, msg tgbotapi.MessageConfig) (int, error) {
	if !tg.Enabled() {
		return 0, telegram.ErrDisabled
	}

	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message",
			"chatID", chatID,
			"error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Info("Message sent",
		"chatID", chatID,
		"messageID", sentMsg.MessageID)
	return sentMsg.MessageID, nil
}

// SendWithKeyboard sends a plain message with inline buttons under it.
func (tg *TelegramImpl) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return tg.send(chatID, msg)
}

// EditMessageText replaces the text of a sent message and drops its buttons.
func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, text string) error {
	if !tg.Enabled() {
		return telegram.ErrDisabled
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := tg.TgBot.Send(edit); err != nil {
		tg.Logger.Error("Error editing message",
			"chatID", chatID,
			"messageID", messageID,
			"error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AnswerCallback stops the loading animation on a pressed button.
func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	if !tg.Enabled() {
		return telegram.ErrDisabled
	}

	// Request, not Send: the reply is a bool, not a Message
	if _, err := tg.TgBot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// SendPhotoByURL lets Telegram fetch the image itself.
func (tg *TelegramImpl) SendPhotoByURL(chatID int64, url, caption string) error {
	if !tg.Enabled() {
		return telegram.ErrDisabled
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	if _, err := tg.TgBot.Send(photo); err != nil {
		tg.Logger.Error("Error sending photo",
			"chatID", chatID,
			"url", url,
			"error", err)
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(message string) {
	if tg.User == 0 {
		return
	}
	if _, err := tg.SendMessage(tg.User, message); err != nil {
		tg.Logger.Error("Error sending message to user",
			"userID", tg.User,
			"error", err)
		return
	}

	tg.Logger.Info("Message sent to user",
		"userID", tg.User)
}

// GetUpdatesChan wraps the bot's GetUpdatesChan method
func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error) {
	if !tg.Enabled() {
		return nil, telegram.ErrDisabled
	}
	return tg.TgBot.GetUpdatesChan(u), nil
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	if tg.Enabled() {
		tg.TgBot.StopReceivingUpdates()
	}
}
