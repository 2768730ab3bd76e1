package commandimpl

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/omnipost/internal/credentials"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	mock_orchestrator "github.com/orgball2608/omnipost/internal/orchestrator/mocks"
	"github.com/orgball2608/omnipost/internal/ratelimit"
	mock_template "github.com/orgball2608/omnipost/internal/repositories/template/mocks"
	mock_telegram "github.com/orgball2608/omnipost/internal/telegram/mocks"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	owner  int64 = 7
	chatID int64 = 7
)

type fixture struct {
	cmd       *CommandImpl
	tg        *mock_telegram.MockClient
	session   *mock_orchestrator.MockSession
	templates *mock_template.MockRepository
	store     *credentials.Store
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{}
	cfg.Telegram.User = owner

	f := &fixture{
		tg:        mock_telegram.NewMockClient(ctrl),
		session:   mock_orchestrator.NewMockSession(ctrl),
		templates: mock_template.NewMockRepository(ctrl),
		store:     credentials.NewStore(credentials.Opts{Logger: logger.NewNop()}),
	}
	f.cmd = New(Opts{
		Telegram:    f.tg,
		Session:     f.session,
		Credentials: f.store,
		Templates:   f.templates,
		Limiter:     ratelimit.NewInMemoryLimiter(1, time.Hour, 1),
		Logger:      logger.NewNop(),
		Config:      cfg,
	})
	return f
}

func commandMessage(from int64, text string) *tgbotapi.Message {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}
}

func TestRejectsStrangers(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, "Sorry, this bot only answers its owner.").Return(1, nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(99, "/batch")))
}

func TestHelpAndUnknown(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, helpMessage).Return(1, nil)
	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(2, nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/help")))
	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/bogus")))
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	draft := domain.Draft{Text: "We shipped v2!", MediaKind: domain.MediaNone}
	set := domain.NewPlatformSet(domain.PlatformTwitter, domain.PlatformLinkedIn)
	batch := domain.NewBatch(draft, []domain.AdaptedPost{
		domain.NewAdaptedPost(draft, domain.PlatformTwitter, "v2 is out", []string{"launch"}),
		domain.NewAdaptedPost(draft, domain.PlatformLinkedIn, "Today we shipped v2", nil),
	})

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.session.EXPECT().Generate(gomock.Any(), draft, set).Return(batch, nil)
	f.tg.EXPECT().EditMessageText(chatID, 10, "✅ Generated 2 variant(s).").Return(nil)
	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).DoAndReturn(func(_ int64, text string) (int, error) {
		assert.Contains(t, text, "Twitter [idle]")
		assert.Contains(t, text, "v2 is out #launch")
		assert.Contains(t, text, "LinkedIn [idle]")
		return 11, nil
	})

	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/generate twitter,linkedin We shipped v2!")))

	// the limiter allows one generate per hour
	f.tg.EXPECT().SendMessage(chatID, "You are generating too fast, please wait a moment.").Return(12, nil)
	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/generate twitter again")))
}

func TestParseGenerateArgs(t *testing.T) {
	set, text, err := parseGenerateArgs("all Hello world")
	require.NoError(t, err)
	assert.Equal(t, len(domain.Platforms()), set.Len())
	assert.Equal(t, "Hello world", text)

	_, _, err = parseGenerateArgs("twitter")
	assert.Error(t, err)

	_, _, err = parseGenerateArgs("myspace hi")
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	f.session.EXPECT().Publish(gomock.Any(), domain.PlatformTwitter).Return(domain.Posted(), nil)
	f.tg.EXPECT().SendMessage(chatID, "✅ Twitter: posted").Return(1, nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/publish twitter")))
}

func TestPublishAllConfirmedByButton(t *testing.T) {
	f := newFixture(t)

	asked := make(chan string, 1)
	f.tg.EXPECT().SendWithKeyboard(chatID, "Publish to 1 platform(s): Twitter?", gomock.Any()).
		DoAndReturn(func(_ int64, _ string, kb tgbotapi.InlineKeyboardMarkup) (int, error) {
			asked <- *kb.InlineKeyboard[0][0].CallbackData
			return 20, nil
		})
	f.session.EXPECT().PublishAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, c orchestrator.Confirmer) (orchestrator.Report, error) {
			if !c.Confirm(ctx, "Publish to 1 platform(s): Twitter?") {
				return orchestrator.Report{Declined: true}, nil
			}
			return orchestrator.Report{Posted: []domain.Platform{domain.PlatformTwitter}, Failed: map[domain.Platform]string{}}, nil
		})
	f.tg.EXPECT().AnswerCallback("cb", "").Return(nil)
	f.tg.EXPECT().EditMessageText(chatID, 20, "✅ Confirmed, publishing now... ⏳").Return(nil)
	f.tg.EXPECT().SendMessage(chatID, "Done. Posted 1, failed 0.").Return(21, nil)

	done := make(chan error, 1)
	go func() {
		done <- f.cmd.processCommand(context.Background(), commandMessage(owner, "/publishall"))
	}()

	data := <-asked
	f.cmd.handleCallback(&tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: owner},
		Message: &tgbotapi.Message{MessageID: 20, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("publishall did not finish")
	}
}

func TestConfirmTimesOut(t *testing.T) {
	f := newFixture(t)
	f.cmd.confirmTimeout = 10 * time.Millisecond

	f.tg.EXPECT().SendWithKeyboard(chatID, "Publish?", gomock.Any()).Return(30, nil)
	f.tg.EXPECT().EditMessageText(chatID, 30, gomock.Any()).Return(nil)

	assert.False(t, f.cmd.confirmer(chatID).Confirm(context.Background(), "Publish?"))
	assert.Empty(t, f.cmd.pending)
}

func TestExpiredCallback(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().AnswerCallback("cb", "").Return(nil)
	f.tg.EXPECT().EditMessageText(chatID, 5, "This confirmation has expired.").Return(nil)

	f.cmd.handleCallback(&tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: owner},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    "confirm:gone:yes",
	})
}

func TestParseConfirmData(t *testing.T) {
	token, yes, ok := parseConfirmData("confirm:abc:yes")
	assert.True(t, ok)
	assert.True(t, yes)
	assert.Equal(t, "abc", token)

	_, yes, ok = parseConfirmData("confirm:abc:no")
	assert.True(t, ok)
	assert.False(t, yes)

	_, _, ok = parseConfirmData("dl_highlight")
	assert.False(t, ok)
	_, _, ok = parseConfirmData("confirm::yes")
	assert.False(t, ok)
}

func TestStatusAndTemplates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(domain.NewCredential(domain.PlatformTwitter,
		map[string]string{domain.FieldBearerToken: "mock_x"}, false)))

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).DoAndReturn(func(_ int64, text string) (int, error) {
		assert.Contains(t, text, "✅ Twitter (simulated)")
		assert.Contains(t, text, "⚪ LinkedIn")
		return 1, nil
	})
	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/status")))

	f.templates.EXPECT().List(gomock.Any()).Return([]*domain.Template{{Name: "Product Launch 🚀"}}, nil)
	f.tg.EXPECT().SendMessage(chatID, "📚 Templates\n1. Product Launch 🚀\n").Return(2, nil)
	require.NoError(t, f.cmd.processCommand(context.Background(), commandMessage(owner, "/templates")))
}

func TestHandleCommandStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	updates := make(chan tgbotapi.Update)
	f.tg.EXPECT().GetUpdatesChan(gomock.Any()).Return(tgbotapi.UpdatesChannel(updates), nil)
	f.tg.EXPECT().StopReceivingUpdates()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.cmd.HandleCommand(ctx), context.Canceled)
}
