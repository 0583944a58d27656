package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"matrix-planner/internal/service"
	"matrix-planner/internal/shortcuts"
	"matrix-planner/internal/store"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageQuadrant
)

const (
	cbCompletePrefix   = "complete:"
	cbImportantPrefix  = "important:"
	cbUrgentPrefix     = "urgent:"
	cbDeletePrefix     = "delete:"
	cbOnboardingPrefix = "onboarding:"
)

type conversationState struct {
	stage conversationStage
}

type confirmationRequest struct {
	taskID int64
}

// API is the part of the Telegram client the bot sends through.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Deps are the stores and services the bot presents.
type Deps struct {
	Tasks    *store.TaskStore
	BigRocks *store.BigRocksStore
	UI       *store.UIStore
	Modals   *store.ModalHost
	TaskSvc  *service.TaskService
	Reports  *service.ReportService
	Logger   *zap.Logger
	Now      func() time.Time
}

// Bot serves the planner to a single Telegram owner.
type Bot struct {
	api     API
	updates *tgbotapi.BotAPI
	ownerID int64

	tasks   *store.TaskStore
	rocks   *store.BigRocksStore
	ui      *store.UIStore
	modals  *store.ModalHost
	taskSvc *service.TaskService
	reports *service.ReportService
	keys    *shortcuts.Dispatcher
	log     *zap.Logger
	now     func() time.Time

	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

// New authorizes against the Telegram API with token. Sends still queued by
// the rate limiter are abandoned once ctx is done.
func New(ctx context.Context, token string, ownerID int64, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := NewWithAPI(newThrottledAPI(ctx, api, rate.NewLimiter(sendRate, sendBurst)), ownerID, deps)
	b.updates = api
	b.log.Info("bot authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

// NewWithAPI builds a bot that sends through api. It cannot poll for updates.
func NewWithAPI(api API, ownerID int64, deps Deps) *Bot {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	modals := deps.Modals
	if modals == nil {
		modals = store.NewModalHost()
	}
	return &Bot{
		api:           api,
		ownerID:       ownerID,
		tasks:         deps.Tasks,
		rocks:         deps.BigRocks,
		ui:            deps.UI,
		modals:        modals,
		taskSvc:       deps.TaskSvc,
		reports:       deps.Reports,
		keys:          shortcuts.NewDispatcher(deps.UI),
		log:           log.Named("bot"),
		now:           now,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.updates == nil {
		return errors.New("bot has no update source")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.updates.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.updates.StopReceivingUpdates()
	}()

	for update := range updates {
		b.HandleUpdate(ctx, update)
	}

	return ctx.Err()
}

// HandleUpdate routes one update and logs any handler error.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.log.Error("handle callback", zap.Error(err))
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error("handle message", zap.Error(err))
		}
	}
}

// SendDailySummary pushes the daily report to the owner.
func (b *Bot) SendDailySummary(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.sendText(b.ownerID, escape(b.reports.DailySummary(b.now())))
}

// SendWeeklyReview pushes the weekly review to the owner.
func (b *Bot) SendWeeklyReview(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.ui.ToggleWeeklyReview(true)
	defer b.ui.ToggleWeeklyReview(false)
	return b.sendText(b.ownerID, escape(b.reports.WeeklyReview(b.now())))
}

func (b *Bot) isOwner(user *tgbotapi.User) bool {
	return user != nil && user.ID == b.ownerID
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
