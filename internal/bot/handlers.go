package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"matrix-planner/internal/model"
	"matrix-planner/internal/service"
	"matrix-planner/internal/shortcuts"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !b.isOwner(msg.From) {
		b.log.Warn("ignoring message from stranger", zap.Int64("user", msg.From.ID))
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.cancelDialog(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		b.log.Info("command", zap.String("name", msg.Command()), zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(msg, pending)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		return b.handleConversation(msg, state)
	}

	if key := strings.TrimSpace(msg.Text); shortcuts.Bound(key) {
		return b.handleShortcut(msg, key)
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Send /add to capture a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "add":
		return b.startCapture(msg, args)
	case "today":
		b.ui.SwitchToTodayView()
		return b.sendTaskList(msg.Chat.ID)
	case "week":
		return b.handleWeek(msg, args)
	case "done":
		return b.handleTaskAction(msg, args, b.taskSvc.ToggleCompleted)
	case "important":
		return b.handleTaskAction(msg, args, b.taskSvc.ToggleImportant)
	case "urgent":
		return b.handleTaskAction(msg, args, b.taskSvc.ToggleUrgent)
	case "delete":
		id, err := parseTaskID(args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Give me the task id: /delete 1718000000000")
		}
		return b.askDeleteConfirmation(msg.Chat.ID, msg.From, id)
	case "stats":
		return b.sendText(msg.Chat.ID, escape(b.reports.WeeklyReview(b.now())))
	case "report":
		return b.sendText(msg.Chat.ID, escape(b.reports.DailySummary(b.now())))
	case "rocks":
		b.ui.ToggleBigRocks(true)
		return b.sendBigRocks(msg.Chat.ID)
	case "rock":
		return b.handleAddRock(msg, args)
	case "unrock":
		return b.handleRemoveRock(msg, args)
	case "cancel":
		b.cancelDialog(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	b.ui.ResetOnboarding()
	b.ui.ToggleOnboarding(true)
	return b.sendOnboardingStep(msg.Chat.ID)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /add [title]: capture a task and pick its quadrant\n" +
		"• /today: open important or urgent tasks\n" +
		"• /week [1-4|quadrant]: every task in one quadrant\n" +
		"• /done &lt;id&gt;: complete or reopen a task\n" +
		"• /important &lt;id&gt;, /urgent &lt;id&gt;: flip a flag\n" +
		"• /delete &lt;id&gt;: delete a task\n" +
		"• /stats: weekly review · /report: daily summary\n" +
		"• /rocks: big rocks · /rock role | text · /unrock role N\n" +
		"• /cancel: abort the current input\n\n" +
		"Shortcuts: <b>n</b> new task, <b>t</b> today, <b>w</b> week, <b>1-4</b> quadrant in week view, <b>esc</b> cancel."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleWeek(msg *tgbotapi.Message, args string) error {
	b.ui.SwitchToWeekView()
	if args != "" {
		q, err := model.ParseQuadrant(args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Quadrant must be do, plan, delegate, eliminate or 1-4.")
		}
		b.ui.SwitchQuadrant(q)
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handleShortcut(msg *tgbotapi.Message, key string) error {
	if !b.keys.Handle(key, false) {
		return b.sendText(msg.Chat.ID, "Quadrant keys 1-4 work in the week view. Send <b>w</b> first.")
	}
	switch strings.ToLower(key) {
	case "n":
		return b.startCapture(msg, "")
	case "esc", shortcuts.KeyEscape:
		b.cancelDialog(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	default:
		return b.sendTaskList(msg.Chat.ID)
	}
}

func (b *Bot) startCapture(msg *tgbotapi.Message, title string) error {
	b.clearConfirmation(msg.From.ID)
	b.ui.ToggleQuickCapture(true)
	title = strings.TrimSpace(title)
	if title == "" {
		b.ui.ResetCaptureState()
		b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
		return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 What needs doing?", cancelKeyboard())
	}
	b.ui.SetCaptureDraft(title, false, false)
	b.setConversation(msg.From.ID, &conversationState{stage: stageQuadrant})
	return b.askQuadrant(msg.Chat.ID, title)
}

func (b *Bot) askQuadrant(chatID int64, title string) error {
	text := fmt.Sprintf("Where does «%s» belong?", escape(normalizeTitle(title)))
	return b.sendWithReplyMarkup(chatID, text, quadrantKeyboard())
}

func (b *Bot) handleConversation(msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title can't be empty. What needs doing?", cancelKeyboard())
		}
		b.ui.SetCaptureDraft(text, false, false)
		state.stage = stageQuadrant
		return b.askQuadrant(msg.Chat.ID, text)
	case stageQuadrant:
		q, ok := parseQuadrantInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the four quadrants.", quadrantKeyboard())
		}
		important, urgent := q.Flags()
		draft := b.ui.Snapshot()
		b.ui.SetCaptureDraft(draft.TaskInput, important, urgent)
		task, err := b.taskSvc.CaptureDraft()
		b.clearConversation(msg.From.ID)
		if err != nil {
			return b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("Couldn't save the task: %s", escape(err.Error())))
		}
		b.log.Info("task captured", zap.Int64("id", task.ID), zap.String("quadrant", string(q)))
		if err := b.sendTextWithRemove(msg.Chat.ID, escape(b.ui.Snapshot().StatusMessage)); err != nil {
			return err
		}
		return b.sendTaskList(msg.Chat.ID)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Try /add again.")
	}
}

func (b *Bot) handleTaskAction(msg *tgbotapi.Message, args string, action func(int64) (model.Task, error)) error {
	id, err := parseTaskID(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "The task id must be a number.")
	}
	if _, err := action(id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return b.sendText(msg.Chat.ID, "Task not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if err := b.sendText(msg.Chat.ID, escape(b.ui.Snapshot().StatusMessage)); err != nil {
		return err
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) askDeleteConfirmation(chatID int64, from *tgbotapi.User, taskID int64) error {
	task, ok := b.tasks.Get(taskID)
	if !ok {
		return b.sendText(chatID, "Task not found.")
	}
	text := fmt.Sprintf("Delete «%s» (#%d)?", escape(normalizeTitle(task.Title)), task.ID)
	b.setConfirmation(from.ID, confirmationRequest{taskID: task.ID})
	b.modals.Open(modalConfirmDelete, map[string]any{"taskID": task.ID, "title": task.Title})
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		b.modals.Close()
		task, err := b.taskSvc.Delete(req.taskID)
		if err != nil {
			return b.sendTextWithRemove(msg.Chat.ID, "Task not found or already deleted.")
		}
		b.log.Info("task deleted", zap.Int64("id", task.ID))
		if err := b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("🗑 «%s» deleted.", escape(normalizeTitle(task.Title)))); err != nil {
			return err
		}
		return b.sendTaskList(msg.Chat.ID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		b.modals.Close()
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the deletion.", confirmKeyboard())
	}
}

func (b *Bot) handleAddRock(msg *tgbotapi.Message, args string) error {
	role, rock, ok := strings.Cut(args, "|")
	role, rock = strings.TrimSpace(role), strings.TrimSpace(rock)
	if !ok || role == "" || rock == "" {
		return b.sendText(msg.Chat.ID, "Usage: /rock role | priority")
	}
	b.rocks.Add(role, rock)
	b.ui.AnnounceStatus(fmt.Sprintf("Added big rock to %s", role))
	return b.sendBigRocks(msg.Chat.ID)
}

func (b *Bot) handleRemoveRock(msg *tgbotapi.Message, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /unrock role N")
	}
	position, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || position < 1 {
		return b.sendText(msg.Chat.ID, "N must be a positive number.")
	}
	role := strings.Join(fields[:len(fields)-1], " ")
	if !b.rocks.Remove(role, position-1) {
		return b.sendText(msg.Chat.ID, "No such big rock.")
	}
	return b.sendBigRocks(msg.Chat.ID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if !b.isOwner(cb.From) {
		b.ack(cb.ID, "")
		return nil
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		return b.handleCallbackAction(cb, cbCompletePrefix, b.taskSvc.ToggleCompleted)
	case strings.HasPrefix(data, cbImportantPrefix):
		return b.handleCallbackAction(cb, cbImportantPrefix, b.taskSvc.ToggleImportant)
	case strings.HasPrefix(data, cbUrgentPrefix):
		return b.handleCallbackAction(cb, cbUrgentPrefix, b.taskSvc.ToggleUrgent)
	case strings.HasPrefix(data, cbDeletePrefix):
		b.ack(cb.ID, "")
		id, err := parseTaskID(strings.TrimPrefix(data, cbDeletePrefix))
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(chatID, cb.From, id)
	case strings.HasPrefix(data, cbOnboardingPrefix):
		b.ack(cb.ID, "")
		return b.handleOnboarding(chatID, strings.TrimPrefix(data, cbOnboardingPrefix))
	default:
		b.ack(cb.ID, "")
		return nil
	}
}

func (b *Bot) handleCallbackAction(cb *tgbotapi.CallbackQuery, prefix string, action func(int64) (model.Task, error)) error {
	id, err := parseTaskID(strings.TrimPrefix(cb.Data, prefix))
	if err != nil {
		b.ack(cb.ID, "")
		return nil
	}
	if _, err := action(id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			b.ack(cb.ID, "Task not found")
			return nil
		}
		b.ack(cb.ID, "")
		return err
	}
	b.ack(cb.ID, b.ui.Snapshot().StatusMessage)
	return b.sendTaskList(cb.Message.Chat.ID)
}

func (b *Bot) handleOnboarding(chatID int64, action string) error {
	switch action {
	case "next":
		b.ui.NextOnboardingStep()
	case "prev":
		b.ui.PrevOnboardingStep()
	case "done":
		b.ui.ToggleOnboarding(false)
		b.ui.ResetOnboarding()
		return b.sendText(chatID, "You're set. Send <b>n</b> to capture your first task.")
	}
	return b.sendOnboardingStep(chatID)
}

// handleMenuAlias answers the reply keyboard buttons. Leaving through the menu
// abandons a pending delete confirmation.
func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	if !isMenuAlias(text) {
		return false, nil
	}
	b.dropConfirmation(msg.From.ID)

	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startCapture(msg, "")
	case strings.ToLower(menuLabelToday):
		b.ui.SwitchToTodayView()
		return true, b.sendTaskList(msg.Chat.ID)
	case strings.ToLower(menuLabelWeek):
		b.ui.SwitchToWeekView()
		return true, b.sendTaskList(msg.Chat.ID)
	case strings.ToLower(menuLabelBigRocks):
		b.ui.ToggleBigRocks(true)
		return true, b.sendBigRocks(msg.Chat.ID)
	case strings.ToLower(menuLabelStats):
		return true, b.sendText(msg.Chat.ID, escape(b.reports.WeeklyReview(b.now())))
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func isMenuAlias(text string) bool {
	for _, label := range []string{menuLabelNewTask, menuLabelToday, menuLabelWeek, menuLabelBigRocks, menuLabelStats, menuLabelHelp} {
		if text == strings.ToLower(label) {
			return true
		}
	}
	return false
}

func (b *Bot) cancelDialog(userID int64) {
	b.clearConversation(userID)
	b.dropConfirmation(userID)
	b.ui.ResetCaptureState()
	b.ui.CloseAllModals()
}

func (b *Bot) dropConfirmation(userID int64) {
	b.clearConfirmation(userID)
	if b.modals.State().Open {
		b.modals.Close()
	}
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}
}

func parseTaskID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
