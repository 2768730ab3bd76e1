package commandimpl

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/orchestrator"
)

const confirmPrefix = "confirm:"

// confirmer asks the question in chatID with Yes/No buttons and blocks until
// a button is pressed, ctx ends, or the confirmation times out.
func (c *CommandImpl) confirmer(chatID int64) orchestrator.Confirmer {
	return orchestrator.ConfirmFunc(func(ctx context.Context, question string) bool {
		token := uuid.NewString()
		answer := make(chan bool, 1)

		c.mu.Lock()
		c.pending[token] = answer
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			delete(c.pending, token)
			c.mu.Unlock()
		}()

		keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Publish", confirmPrefix+token+":yes"),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", confirmPrefix+token+":no"),
		))
		msgID, err := c.Telegram.SendWithKeyboard(chatID, question, keyboard)
		if err != nil {
			c.Logger.Error("Failed to ask for confirmation", "error", err)
			return false
		}

		timer := time.NewTimer(c.confirmTimeout)
		defer timer.Stop()

		select {
		case ok := <-answer:
			return ok
		case <-ctx.Done():
			return false
		case <-timer.C:
			_ = c.Telegram.EditMessageText(chatID, msgID, "⌛ Confirmation timed out, nothing was published.")
			return false
		}
	})
}

func (c *CommandImpl) handleCallback(cq *tgbotapi.CallbackQuery) {
	if err := c.Telegram.AnswerCallback(cq.ID, ""); err != nil {
		c.Logger.Warn("Failed to answer callback", "error", err)
	}
	if cq.Message == nil || !c.authorized(cq.From) {
		return
	}

	token, yes, ok := parseConfirmData(cq.Data)
	if !ok {
		c.Logger.Warn("Unknown callback data", "data", cq.Data)
		return
	}

	chatID := cq.Message.Chat.ID
	if !c.resolve(token, yes) {
		_ = c.Telegram.EditMessageText(chatID, cq.Message.MessageID, "This confirmation has expired.")
		return
	}

	text := "Publish cancelled."
	if yes {
		text = "✅ Confirmed, publishing now... ⏳"
	}
	_ = c.Telegram.EditMessageText(chatID, cq.Message.MessageID, text)
}

// resolve delivers the answer to a waiting confirmer. It reports whether one
// was still waiting.
func (c *CommandImpl) resolve(token string, yes bool) bool {
	c.mu.Lock()
	answer, ok := c.pending[token]
	delete(c.pending, token)
	c.mu.Unlock()

	if !ok {
		return false
	}
	answer <- yes
	return true
}

func parseConfirmData(data string) (token string, yes bool, ok bool) {
	if !strings.HasPrefix(data, confirmPrefix) {
		return "", false, false
	}
	parts := strings.Split(strings.TrimPrefix(data, confirmPrefix), ":")
	if len(parts) != 2 || parts[0] == "" {
		return "", false, false
	}
	switch parts[1] {
	case "yes":
		return parts[0], true, true
	case "no":
		return parts[0], false, true
	}
	return "", false, false
}
