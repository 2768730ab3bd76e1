package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/pkg/formatter"
)

const helpMessage = `👋 Welcome to OmniPost!

/generate <platforms> <text> - Adapt a draft, e.g. /generate twitter,linkedin We shipped v2!
/batch - Show the current batch and its publish states
/publish <platform> - Publish one platform's post
/publishall - Publish every pending platform after confirming
/status - Show which platforms are connected
/templates - List saved templates

Type /help at any time to see this guide.`

const previewLength = 280

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := c.Telegram.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}

			// Button presses answer a pending confirmation
			if update.CallbackQuery != nil {
				go c.handleCallback(update.CallbackQuery)
				continue
			}

			go func(u tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()

				if u.Message == nil || !u.Message.IsCommand() {
					return
				}

				if err := c.processCommand(ctx, u.Message); err != nil {
					c.Logger.Error("Error processing command",
						"command", u.Message.Command(),
						"error", err)
				}
			}(update)
		}
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message) error {
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	if !c.authorized(msg.From) {
		_, err := c.Telegram.SendMessage(chatID, "Sorry, this bot only answers its owner.")
		return err
	}

	c.Logger.Info("Command received", "command", command, "chatID", chatID)

	switch command {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "generate":
		return c.handleGenerate(ctx, chatID, msg.From.ID, args)
	case "batch":
		return c.handleBatch(chatID)
	case "publish":
		return c.handlePublish(ctx, chatID, args)
	case "publishall":
		return c.handlePublishAll(ctx, chatID)
	case "status":
		return c.handleStatus(chatID)
	case "templates":
		return c.handleTemplates(ctx, chatID)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}

func (c *CommandImpl) authorized(from *tgbotapi.User) bool {
	if c.Owner == 0 {
		return true
	}
	return from != nil && from.ID == c.Owner
}

func (c *CommandImpl) handleGenerate(ctx context.Context, chatID, userID int64, args string) error {
	platforms, text, err := parseGenerateArgs(args)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "Could not read that: "+err.Error()+"\nUsage: /generate twitter,linkedin <text>")
		return sendErr
	}

	if c.Limiter != nil && !c.Limiter.Allow(strconv.FormatInt(userID, 10)) {
		_, err := c.Telegram.SendMessage(chatID, "You are generating too fast, please wait a moment.")
		return err
	}

	sentMsgID, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Adapting your draft for %d platform(s)... ⏳", platforms.Len()))
	if err != nil {
		return fmt.Errorf("failed to send initial message: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	batch, err := c.Session.Generate(genCtx, domain.Draft{Text: text, MediaKind: domain.MediaNone}, platforms)
	if err != nil {
		_ = c.Telegram.EditMessageText(chatID, sentMsgID, "❌ Generation failed: "+err.Error())
		return err
	}

	_ = c.Telegram.EditMessageText(chatID, sentMsgID, fmt.Sprintf("✅ Generated %d variant(s).", len(batch.Posts)))
	_, err = c.Telegram.SendMessage(chatID, renderBatch(batch))
	return err
}

// parseGenerateArgs splits "twitter,linkedin some text" into platforms and
// text. "all" selects every platform.
func parseGenerateArgs(args string) (domain.PlatformSet, string, error) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		return domain.PlatformSet{}, "", errors.New("platforms and text are required")
	}

	if strings.EqualFold(fields[0], "all") {
		return domain.NewPlatformSet(domain.Platforms()...), strings.TrimSpace(fields[1]), nil
	}

	set, err := domain.ParsePlatformSet(strings.Split(fields[0], ","))
	if err != nil {
		return domain.PlatformSet{}, "", err
	}
	return set, strings.TrimSpace(fields[1]), nil
}

func (c *CommandImpl) handleBatch(chatID int64) error {
	batch, ok := c.Session.Batch()
	if !ok {
		_, err := c.Telegram.SendMessage(chatID, "No batch yet. Use /generate to create one.")
		return err
	}
	_, err := c.Telegram.SendMessage(chatID, renderBatch(batch))
	return err
}

func renderBatch(batch *domain.Batch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Batch %s (%d platform(s))\n", batch.ID.String()[:8], len(batch.Posts))
	for _, post := range batch.Posts {
		fmt.Fprintf(&b, "\n%s [%s]\n%s\n", post.Platform.Label(), post.State, formatter.Truncate(
			formatter.JoinBody(post.Content, post.Hashtags, " "), previewLength))
	}
	return b.String()
}

func (c *CommandImpl) handlePublish(ctx context.Context, chatID int64, args string) error {
	platform, err := domain.ParsePlatform(args)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "Please name a platform: /publish <platform>")
		return sendErr
	}

	state, err := c.Session.Publish(ctx, platform)
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ "+err.Error())
		return sendErr
	}
	_, err = c.Telegram.SendMessage(chatID, fmt.Sprintf("✅ %s: %s", platform.Label(), state))
	return err
}

func (c *CommandImpl) handlePublishAll(ctx context.Context, chatID int64) error {
	report, err := c.Session.PublishAll(ctx, c.confirmer(chatID))
	if err != nil {
		_, sendErr := c.Telegram.SendMessage(chatID, "❌ "+err.Error())
		return sendErr
	}

	var text string
	switch {
	case report.NoOp:
		text = "Nothing pending to publish."
	case report.Declined:
		text = "Publish cancelled."
	default:
		text = fmt.Sprintf("Done. Posted %d, failed %d.", len(report.Posted), len(report.Failed))
		for _, p := range domain.Platforms() {
			if reason, ok := report.Failed[p]; ok {
				text += fmt.Sprintf("\n❌ %s: %s", p.Label(), reason)
			}
		}
	}
	_, err = c.Telegram.SendMessage(chatID, text)
	return err
}

func (c *CommandImpl) handleStatus(chatID int64) error {
	var b strings.Builder
	b.WriteString("🔌 Connections\n")
	for _, st := range c.Credentials.Statuses() {
		if st.Connected {
			fmt.Fprintf(&b, "✅ %s (%s)\n", st.Label, st.Kind)
		} else {
			fmt.Fprintf(&b, "⚪ %s\n", st.Label)
		}
	}
	_, err := c.Telegram.SendMessage(chatID, b.String())
	return err
}

func (c *CommandImpl) handleTemplates(ctx context.Context, chatID int64) error {
	templates, err := c.Templates.List(ctx)
	if err != nil {
		c.Logger.Error("Failed to list templates", "error", err)
		_, sendErr := c.Telegram.SendMessage(chatID, "Something went wrong. Please try again later.")
		return sendErr
	}

	if len(templates) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "No templates saved yet.")
		return err
	}

	var b strings.Builder
	b.WriteString("📚 Templates\n")
	for i, t := range templates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Name)
	}
	_, err = c.Telegram.SendMessage(chatID, b.String())
	return err
}
