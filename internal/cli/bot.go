package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matrix-planner/internal/bot"
	"matrix-planner/internal/metrics"
	"matrix-planner/internal/service"
	"matrix-planner/internal/store"
)

const reportJobTimeout = 30 * time.Second

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the planner to its owner over Telegram",
		Long: `Serve the planner over Telegram. Requires telegram.token and telegram.owner_id
(PLANNER_TELEGRAM_TOKEN, PLANNER_TELEGRAM_OWNER_ID). The daily summary and weekly
review are pushed to the owner on report.daily_at and report.weekly_cron.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.serveBot(cmd.Context())
		}),
	}
}

func (a *app) serveBot(ctx context.Context) error {
	if err := a.cfg.ValidateBot(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	collector := metrics.NewCollector(a.now)
	collector.Observe(a.tasks.Tasks())
	unsubscribe := a.tasks.Subscribe(collector.Observe)
	defer unsubscribe()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := collector.Serve(ctx, addr, a.log); err != nil {
				a.log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	telegramBot, err := bot.New(ctx, a.cfg.Telegram.Token, a.cfg.Telegram.OwnerID, bot.Deps{
		Tasks:    a.tasks,
		BigRocks: a.rocks,
		UI:       a.ui,
		Modals:   store.NewModalHost(store.WithModalCloseDelay(a.cfg.UI.ModalCloseDelay)),
		TaskSvc:  a.taskSvc,
		Reports:  a.reports,
		Logger:   a.log,
		Now:      a.now,
	})
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	scheduler := service.NewSchedulerService(time.Local, a.log)
	if err := a.startScheduler(scheduler, telegramBot, collector); err != nil {
		return err
	}
	defer scheduler.Stop()

	a.log.Info("matrix planner bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped with error: %w", err)
	}
	a.log.Info("shutdown complete")
	return nil
}

// reporter pushes the scheduled reports.
type reporter interface {
	SendDailySummary(ctx context.Context) error
	SendWeeklyReview(ctx context.Context) error
}

// startScheduler registers the report jobs and the metrics window refresh,
// then starts scheduler and logs when each report fires next.
func (a *app) startScheduler(scheduler *service.SchedulerService, r reporter, collector *metrics.Collector) error {
	type scheduled struct {
		name string
		id   cron.EntryID
	}
	var reports []scheduled

	if a.cfg.Report.DailyAt != "" {
		id, err := scheduler.ScheduleDaily(a.cfg.Report.DailyAt, a.reportJob("daily summary", r.SendDailySummary))
		if err != nil {
			return fmt.Errorf("schedule daily summary: %w", err)
		}
		reports = append(reports, scheduled{"daily summary", id})
	}
	if a.cfg.Report.WeeklyCron != "" {
		id, err := scheduler.ScheduleCron(a.cfg.Report.WeeklyCron, a.reportJob("weekly review", r.SendWeeklyReview))
		if err != nil {
			return fmt.Errorf("schedule weekly review: %w", err)
		}
		reports = append(reports, scheduled{"weekly review", id})
	}
	if a.cfg.Metrics.Refresh > 0 {
		refresh := func() { collector.RefreshWindow(a.tasks.Tasks()) }
		if _, err := scheduler.ScheduleInterval(a.cfg.Metrics.Refresh, refresh); err != nil {
			return fmt.Errorf("schedule metrics refresh: %w", err)
		}
	}

	scheduler.Start()
	for _, e := range reports {
		a.log.Info("next report", zap.String("name", e.name), zap.Time("at", scheduler.Next(e.id)))
	}
	return nil
}

func (a *app) reportJob(name string, send func(context.Context) error) func() {
	return func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), reportJobTimeout)
		defer cancel()
		if err := send(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("report", zap.String("name", name), zap.Error(err))
		}
	}
}
