package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	"github.com/orgball2608/omnipost/internal/telegram"
	"github.com/orgball2608/omnipost/pkg/config"
	"github.com/orgball2608/omnipost/pkg/formatter"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/orgball2608/omnipost/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const maxWorkers = 5

type Opts struct {
	fx.In

	Telegram telegram.Client
	Config   *config.Config
	Logger   logger.Logger
}

// TelegramNotifier delivers publish reports to the configured report chats,
// falling back to the owner's chat.
type TelegramNotifier struct {
	tg       telegram.Client
	chats    []int64
	logger   logger.Logger
	retryCfg retry.Config
}

func New(opts Opts) *TelegramNotifier {
	chats := opts.Config.Telegram.ReportChats
	if len(chats) == 0 && opts.Config.Telegram.User != 0 {
		chats = []int64{opts.Config.Telegram.User}
	}
	return &TelegramNotifier{
		tg:       opts.Telegram,
		chats:    chats,
		logger:   opts.Logger.WithComponent("Notifier"),
		retryCfg: retry.DefaultConfig(),
	}
}

var _ orchestrator.Notifier = (*TelegramNotifier)(nil)

func (n *TelegramNotifier) NotifyReport(ctx context.Context, report orchestrator.Report) error {
	if !n.tg.Enabled() || len(n.chats) == 0 {
		return nil
	}
	if report.NoOp || report.Declined {
		return nil
	}

	text := FormatReport(report)

	workers := len(n.chats)
	if workers > maxWorkers {
		workers = maxWorkers
	}
	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		return fmt.Errorf("failed to create notification pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, chatID := range n.chats {
		wg.Add(1)
		chat := chatID

		submitErr := pool.Submit(func() {
			defer wg.Done()
			err := retry.Do(ctx, n.logger, "SendReport", func(context.Context) error {
				_, err := n.tg.SendMarkdown(chat, text)
				if errors.Is(err, telegram.ErrDisabled) {
					return retry.Permanent(err)
				}
				return err
			}, n.retryCfg)
			if err != nil {
				n.logger.Error("Failed to deliver report", "chatID", chat, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("chat %d: %w", chat, err))
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			n.logger.Error("Failed to submit report job", "chatID", chat, "error", submitErr)
			mu.Lock()
			errs = append(errs, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// FormatReport renders a MarkdownV2 summary with platforms in display order.
func FormatReport(report orchestrator.Report) string {
	var b strings.Builder
	b.WriteString("*Publish report*\n")
	fmt.Fprintf(&b, "Batch `%s`\n\n", report.BatchID)

	posted := make(map[domain.Platform]bool, len(report.Posted))
	for _, p := range report.Posted {
		posted[p] = true
	}
	skipped := make(map[domain.Platform]bool, len(report.Skipped))
	for _, p := range report.Skipped {
		skipped[p] = true
	}

	for _, p := range domain.Platforms() {
		label := formatter.EscapeMarkdownV2(p.Label())
		switch {
		case posted[p]:
			fmt.Fprintf(&b, "✅ %s\n", label)
		case skipped[p]:
			fmt.Fprintf(&b, "⏭ %s\n", label)
		default:
			if reason, ok := report.Failed[p]; ok {
				fmt.Fprintf(&b, "❌ %s: %s\n", label, formatter.EscapeMarkdownV2(formatter.Truncate(reason, 200)))
			}
		}
	}

	fmt.Fprintf(&b, "\n%d posted, %d failed", len(report.Posted), len(report.Failed))
	return b.String()
}
