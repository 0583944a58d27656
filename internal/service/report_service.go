package service

import (
	"fmt"
	"strings"
	"time"

	"matrix-planner/internal/model"
	"matrix-planner/internal/stats"
	"matrix-planner/internal/store"
)

// DailyReport is the content of the morning summary.
type DailyReport struct {
	Date     time.Time
	Today    map[model.Quadrant][]model.Task
	Summary  stats.Summary
	Progress stats.Progress
	Q2Ratio  int
	BigRocks []model.RoleRock
}

// WeeklyReport is the content of the weekly review.
type WeeklyReport struct {
	Date              time.Time
	CompletedThisWeek int
	CompletionRate    int
	Q2Ratio           int
	Q2Band            stats.Band
	UrgentDependency  int
	UrgentBand        stats.Band
	Quadrants         map[model.Quadrant]stats.QuadrantStat
	Ratios            map[model.Quadrant]int
}

// ReportService builds human-readable summaries from store snapshots.
type ReportService struct {
	tasks *store.TaskStore
	rocks *store.BigRocksStore
}

func NewReportService(tasks *store.TaskStore, rocks *store.BigRocksStore) *ReportService {
	return &ReportService{tasks: tasks, rocks: rocks}
}

func (s *ReportService) Daily(now time.Time) DailyReport {
	tasks := s.tasks.Tasks()
	today := make(map[model.Quadrant][]model.Task, 3)
	for _, t := range stats.TodayTasks(tasks) {
		today[t.Quadrant()] = append(today[t.Quadrant()], t)
	}
	return DailyReport{
		Date:     now,
		Today:    today,
		Summary:  stats.Summarize(tasks, now),
		Progress: stats.TodayProgress(tasks),
		Q2Ratio:  stats.Q2Ratio(tasks),
		BigRocks: s.rocks.All(),
	}
}

func (s *ReportService) Weekly(now time.Time) WeeklyReport {
	tasks := s.tasks.Tasks()
	urgent := stats.UrgentDependency(tasks)
	return WeeklyReport{
		Date:              now,
		CompletedThisWeek: stats.WeeklyProgress(tasks, now),
		CompletionRate:    stats.CompletionRate(tasks),
		Q2Ratio:           stats.Q2Ratio(tasks),
		Q2Band:            stats.Q2Band(tasks),
		UrgentDependency:  urgent,
		UrgentBand:        stats.UrgentBand(urgent),
		Quadrants:         stats.QuadrantStats(tasks),
		Ratios:            stats.QuadrantRatios(tasks),
	}
}

// DailySummary renders the daily report as plain text.
func (s *ReportService) DailySummary(now time.Time) string {
	return s.Daily(now).String()
}

func (s *ReportService) WeeklyReview(now time.Time) string {
	return s.Weekly(now).String()
}

func (r DailyReport) String() string {
	var b strings.Builder
	b.WriteString("📋 Daily summary\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", r.Date.Format("2006-01-02")))

	b.WriteString("🔥 Today\n")
	empty := true
	for _, q := range model.Quadrants() {
		tasks := r.Today[q]
		if len(tasks) == 0 {
			continue
		}
		empty = false
		b.WriteString(fmt.Sprintf("%s\n", q.Label()))
		for _, t := range tasks {
			b.WriteString(fmt.Sprintf("  • #%d %s\n", t.ID, t.Title))
		}
	}
	if empty {
		b.WriteString("  • nothing important or urgent\n")
	}

	b.WriteString(fmt.Sprintf("\n✅ Done today: %d · open: %d · do-first: %d\n",
		r.Summary.CompletedToday, r.Summary.TotalTasks, r.Summary.HighPriority))
	b.WriteString(fmt.Sprintf("📈 Important/urgent progress: %d/%d (%d%%)\n",
		r.Progress.Completed, r.Progress.Total, r.Progress.CompletionRate))
	b.WriteString(fmt.Sprintf("🧭 Plan share of today: %d%%\n", r.Q2Ratio))

	if len(r.BigRocks) > 0 {
		b.WriteString("\n🪨 Big rocks\n")
		for _, rr := range r.BigRocks {
			b.WriteString(fmt.Sprintf("  • %s: %s\n", rr.Role, rr.Rock))
		}
	}
	return strings.TrimSpace(b.String())
}

func (r WeeklyReport) String() string {
	var b strings.Builder
	b.WriteString("🗓 Weekly review\n")
	b.WriteString(fmt.Sprintf("Week ending %s\n\n", r.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("✅ Completed in the last 7 days: %d\n", r.CompletedThisWeek))
	b.WriteString(fmt.Sprintf("📈 Completion rate: %d%%\n", r.CompletionRate))
	b.WriteString(fmt.Sprintf("%s Plan share: %d%%\n", bandIcon(r.Q2Band), r.Q2Ratio))
	b.WriteString(fmt.Sprintf("%s Urgent dependency: %d%%\n\n", bandIcon(r.UrgentBand), r.UrgentDependency))
	for _, q := range model.Quadrants() {
		st := r.Quadrants[q]
		b.WriteString(fmt.Sprintf("%-10s %d/%d done · %d%% of tasks\n", q.Label(), st.Completed, st.Total, r.Ratios[q]))
	}
	return strings.TrimSpace(b.String())
}

func bandIcon(b stats.Band) string {
	switch b {
	case stats.BandGreen:
		return "🟢"
	case stats.BandYellow:
		return "🟡"
	default:
		return "🔴"
	}
}
