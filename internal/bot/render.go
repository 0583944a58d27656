package bot

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matrix-planner/internal/model"
	"matrix-planner/internal/stats"
)

const (
	btnConfirm        = "✅ Confirm"
	btnCancel         = "↩️ Cancel"
	btnCancelDialog   = "⏪ Cancel input"
	menuLabelNewTask  = "➕ New task"
	menuLabelToday    = "🔥 Today"
	menuLabelWeek     = "🗓 Week"
	menuLabelBigRocks = "🪨 Big rocks"
	menuLabelStats    = "📊 Stats"
	menuLabelHelp     = "ℹ️ Help"
	iconDone          = "✅"

	modalConfirmDelete = "confirm-delete"
)

var onboardingSteps = [...]string{
	"👋 <b>Welcome to the matrix planner</b>\n\nEvery task is sorted by two questions: is it <b>important</b>, and is it <b>urgent</b>?",
	"🧭 <b>Four quadrants</b>\n\n🔥 Do first: important and urgent\n📅 Plan: important, not urgent\n🤝 Delegate: urgent, not important\n🗑 Eliminate: neither",
	"🪨 <b>Big rocks</b>\n\nKeep a few long-term priorities per life role with /rock role | priority. Plan time for them before the small stuff.",
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

// sendTaskList renders the list for the current view: the today list, or one
// quadrant of the week view.
func (b *Bot) sendTaskList(chatID int64) error {
	ui := b.ui.Snapshot()
	all := b.tasks.Tasks()
	now := b.now()

	var builder strings.Builder
	var tasks []model.Task

	switch ui.View {
	case model.ViewWeek:
		tasks = stats.QuadrantTasks(all, ui.Quadrant)
		counts := stats.QuadrantCounts(all)
		builder.WriteString(fmt.Sprintf("🗓 <b>Week · %s</b>\n", escape(ui.Quadrant.Label())))
		for i, q := range model.Quadrants() {
			if i > 0 {
				builder.WriteString(" · ")
			}
			marker := ""
			if q == ui.Quadrant {
				marker = "▸"
			}
			builder.WriteString(fmt.Sprintf("%s%d %s %d", marker, i+1, quadrantIcon(q), counts[q]))
		}
		builder.WriteString("\n\n")
	default:
		tasks = stats.TodayTasks(all)
		builder.WriteString("🔥 <b>Today</b>\n")
		builder.WriteString(fmt.Sprintf("Plan share: %d%%\n\n", stats.Q2Ratio(all)))
	}

	if len(tasks) == 0 {
		builder.WriteString("Nothing here. Send <b>n</b> to capture a task.")
		return b.sendText(chatID, builder.String())
	}

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		builder.WriteString(formatTask(task, now))
		label := fmt.Sprintf("%s #%d · %s", iconDone, task.ID, shortTitle(task.Title, 20))
		if task.Completed {
			label = fmt.Sprintf("↩️ #%d · %s", task.ID, shortTitle(task.Title, 20))
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❗", fmt.Sprintf("%s%d", cbImportantPrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("⏰", fmt.Sprintf("%s%d", cbUrgentPrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendBigRocks(chatID int64) error {
	rocks := b.rocks.Snapshot()
	roles := b.rocks.Roles()
	if len(roles) == 0 {
		return b.sendText(chatID, "🪨 No big rocks yet. Add one with /rock role | priority.")
	}

	var builder strings.Builder
	builder.WriteString("🪨 <b>Big rocks</b>\n")
	for _, role := range roles {
		builder.WriteString(fmt.Sprintf("\n<b>%s</b>\n", escape(normalizeTitle(role))))
		for i, rock := range rocks[role] {
			if strings.TrimSpace(rock) == "" {
				continue
			}
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(rock)))
		}
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) sendOnboardingStep(chatID int64) error {
	step := b.ui.Snapshot().OnboardingStep
	if step < 1 || step > len(onboardingSteps) {
		step = 1
	}
	text := fmt.Sprintf("%s\n\n<i>Step %d of %d</i>", onboardingSteps[step-1], step, len(onboardingSteps))

	var row []tgbotapi.InlineKeyboardButton
	if step > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Back", cbOnboardingPrefix+"prev"))
	}
	if step < len(onboardingSteps) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", cbOnboardingPrefix+"next"))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🚀 Start", cbOnboardingPrefix+"done"))
	}
	return b.sendWithReplyMarkup(chatID, text, tgbotapi.NewInlineKeyboardMarkup(row))
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelWeek),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelBigRocks),
			tgbotapi.NewKeyboardButton(menuLabelStats),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func quadrantKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for i, q := range model.Quadrants() {
		row = append(row, tgbotapi.NewKeyboardButton(quadrantButton(i+1, q)))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
			row = nil
		}
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func quadrantButton(n int, q model.Quadrant) string {
	return fmt.Sprintf("%d · %s %s", n, quadrantIcon(q), q.Label())
}

// parseQuadrantInput accepts a keyboard button, a quadrant label, or anything
// model.ParseQuadrant understands.
func parseQuadrantInput(text string) (model.Quadrant, bool) {
	value := strings.TrimSpace(strings.ToLower(text))
	for i, q := range model.Quadrants() {
		if value == strings.ToLower(quadrantButton(i+1, q)) || value == strings.ToLower(q.Label()) {
			return q, true
		}
	}
	if head, _, ok := strings.Cut(value, " · "); ok {
		value = head
	}
	q, err := model.ParseQuadrant(value)
	if err != nil {
		return "", false
	}
	return q, true
}

func quadrantIcon(q model.Quadrant) string {
	switch q {
	case model.QuadrantDo:
		return "🔥"
	case model.QuadrantPlan:
		return "📅"
	case model.QuadrantDelegate:
		return "🤝"
	default:
		return "🗑"
	}
}

func formatTask(task model.Task, now time.Time) string {
	title := escape(normalizeTitle(task.Title))
	if task.Completed {
		title = "<s>" + title + "</s>"
	}
	line := fmt.Sprintf("%s <b>#%d</b> %s", quadrantIcon(task.Quadrant()), task.ID, title)
	switch {
	case task.Completed && task.CompletedAt != nil:
		line += fmt.Sprintf(" · done %s", task.CompletedAt.In(now.Location()).Format("02.01 15:04"))
	case stats.IsToday(task.CreatedAt, now):
		line += " · new today"
	}
	return line + "\n"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}
