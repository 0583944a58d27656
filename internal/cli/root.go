// Package cli wires configuration, storage and stores behind the matrixplanner commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"matrix-planner/internal/config"
	"matrix-planner/internal/logging"
	"matrix-planner/internal/repository"
	"matrix-planner/internal/service"
	"matrix-planner/internal/store"
)

// app holds everything a command needs once storage is open.
type app struct {
	configPath string
	now        func() time.Time

	cfg     config.Config
	log     *zap.Logger
	db      *gorm.DB
	tasks   *store.TaskStore
	rocks   *store.BigRocksStore
	ui      *store.UIStore
	taskSvc *service.TaskService
	reports *service.ReportService
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &app{now: time.Now})
}

func newRootCommand(version string, a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "matrixplanner",
		Short: "Eisenhower matrix task planner",
		Long: `matrixplanner sorts tasks by importance and urgency into four quadrants,
tracks completion statistics and keeps long-term "big rocks" per life role.

Run "matrixplanner bot" to serve the planner over Telegram.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")

	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newToggleCmd(a, "done", "Complete or reopen a task", a.toggleCompleted))
	root.AddCommand(newToggleCmd(a, "important", "Flip the important flag of a task", a.toggleImportant))
	root.AddCommand(newToggleCmd(a, "urgent", "Flip the urgent flag of a task", a.toggleUrgent))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newRocksCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newBotCmd(a))
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, version string) error {
	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// run opens storage around fn and closes it afterwards.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log = log

	db, err := repository.NewDB(cfg.Storage.Path, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	a.db = db

	storage := repository.NewLocalStorage(db)
	opts := []store.Option{
		store.WithClock(a.now),
		store.WithLogger(log),
		store.WithStatusClearDelay(cfg.UI.StatusClearDelay),
		store.WithModalCloseDelay(cfg.UI.ModalCloseDelay),
	}

	a.tasks, err = store.NewTaskStore(ctx, repository.NewTaskRepository(storage), opts...)
	if err != nil {
		return err
	}
	a.rocks, err = store.NewBigRocksStore(ctx, repository.NewBigRockRepository(storage), opts...)
	if err != nil {
		return err
	}
	a.ui = store.NewUIStore(opts...)
	a.taskSvc = service.NewTaskService(a.tasks, a.ui, log)
	a.reports = service.NewReportService(a.tasks, a.rocks)
	return nil
}

func (a *app) close() {
	if a.ui != nil {
		a.ui.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
