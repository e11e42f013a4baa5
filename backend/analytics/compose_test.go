package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserAnalytics(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	report := UserAnalytics(sampleSessions(), w)

	assert.Equal(t, 7, report.Period.Days)
	assert.Equal(t, 4, report.Summary.TotalSessions)
	assert.Equal(t, 5.0, report.Summary.TotalTime)
	assert.Equal(t, 1.25, report.Summary.AverageTimePerSession)
	// focus: (8+6+9)/3, запись без уровня не входит в знаменатель
	assert.InDelta(t, 7.67, report.Summary.AverageFocusLevel, 0.001)

	assert.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, DailyStat{Time: 3.5, Sessions: 2}, report.DailyBreakdown["2024-03-08"])
	assert.Equal(t, DailyStat{Time: 1.5, Sessions: 2}, report.DailyBreakdown["2024-03-09"])

	assert.Len(t, report.SubjectBreakdown, 2)
	assert.Equal(t, SubjectStat{Time: 2.0, Sessions: 2, Color: "#3B82F6"}, report.SubjectBreakdown["Math"])
	assert.Equal(t, SubjectStat{Time: 3.0, Sessions: 2, Color: "#EF4444"}, report.SubjectBreakdown["Physics"])
}

func TestUserAnalyticsEmpty(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	report := UserAnalytics(nil, w)

	assert.Equal(t, 0, report.Summary.TotalSessions)
	assert.Equal(t, 0.0, report.Summary.TotalTime)
	assert.Equal(t, 0.0, report.Summary.AverageTimePerSession)
	assert.Empty(t, report.DailyBreakdown)
	assert.Empty(t, report.SubjectBreakdown)
}

func TestUserAnalyticsExcludesSessionsOutsideWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	old := SessionRecord{ID: 99, SubjectName: "Math", TimeSpent: 10, Timestamp: now.AddDate(0, 0, -20)}
	report := UserAnalytics(append(sampleSessions(), old), w)
	assert.Equal(t, 4, report.Summary.TotalSessions)
	assert.Equal(t, 5.0, report.Summary.TotalTime)
}

// Округление выполняется один раз на границе: итог, собранный из
// неокругленных накопителей, совпадает с разовым округлением прямой суммы.
func TestUserAnalyticsRoundsOnce(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	var records []SessionRecord
	var raw float64
	for i := 0; i < 9; i++ {
		records = append(records, SessionRecord{
			SubjectName: "Math",
			TimeSpent:   1.0 / 3.0,
			Timestamp:   now.Add(-time.Duration(i) * time.Hour),
		})
		raw += 1.0 / 3.0
	}

	report := UserAnalytics(records, w)
	assert.Equal(t, round2(raw), report.Summary.TotalTime)
	assert.Equal(t, 3.0, report.Summary.TotalTime)
}

func TestWeeklyInsights(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	notes := []NoteRecord{
		{ID: 1, Transcript: "reflected on calculus", Timestamp: now.Add(-time.Hour)},
		{ID: 2, Transcript: "", Timestamp: now.Add(-2 * time.Hour)},
		{ID: 3, Transcript: "old reflection", Timestamp: now.AddDate(0, 0, -20)},
	}

	report := WeeklyInsights(sampleSessions(), notes, w)

	assert.Equal(t, 5.0, report.TotalStudyTime)
	assert.Equal(t, 4, report.TotalSessions)
	assert.Equal(t, 2, report.SubjectsStudied)
	assert.Equal(t, "Physics", report.MostStudiedSubject.Name)
	assert.Equal(t, 3.0, report.MostStudiedSubject.Time)
	assert.Equal(t, "Math", report.LeastStudiedSubject.Name)
	assert.Equal(t, 2.0, report.LeastStudiedSubject.Time)
	// Пустые расшифровки и заметки вне окна не считаются
	assert.Equal(t, 1, report.ReflectionCount)
}

func TestWeeklyInsightsNoSessions(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 7)

	report := WeeklyInsights(nil, nil, w)

	// Заглушка вместо ошибки экстремума
	assert.Equal(t, "", report.MostStudiedSubject.Name)
	assert.Equal(t, 0.0, report.MostStudiedSubject.Time)
	assert.Equal(t, "", report.LeastStudiedSubject.Name)
	assert.Equal(t, 0, report.SubjectsStudied)
}

func TestSubjectFeedbackNoData(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 30)

	report := SubjectFeedback("History", nil, w)

	assert.Equal(t, "History", report.SubjectName)
	assert.Nil(t, report.Stats)
	assert.Contains(t, report.Feedback, "No recent study sessions")
	assert.Len(t, report.Suggestions, 2)
}

func TestSubjectFeedbackWithSessions(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 30)

	var records []SessionRecord
	for i := 0; i < 7; i++ {
		records = append(records, SessionRecord{
			SubjectName: "Math",
			TimeSpent:   1,
			Topic:       fmt.Sprintf("topic-%d", i),
			FocusLevel:  focus(7),
			Timestamp:   now.AddDate(0, 0, -i),
		})
	}

	report := SubjectFeedback("Math", records, w)

	assert.NotNil(t, report.Stats)
	assert.Equal(t, 7.0, report.Stats.TotalTime)
	assert.Equal(t, 7, report.Stats.Sessions)
	assert.Equal(t, 7.0, report.Stats.AverageFocus)
	// Темы усечены до пяти только на границе ответа
	assert.Equal(t, []string{"topic-0", "topic-1", "topic-2", "topic-3", "topic-4"}, report.Topics)
}

func TestSubjectStatsList(t *testing.T) {
	subjects := []SubjectInfo{
		{ID: 1, Name: "Math", Color: "#3B82F6"},
		{ID: 2, Name: "Physics", Color: "#EF4444"},
		{ID: 3, Name: "History", Color: "#10B981"},
	}

	stats := SubjectStatsList(subjects, sampleSessions())

	assert.Len(t, stats, 3)
	assert.Equal(t, "Physics", stats[0].Name)
	assert.Equal(t, 3.0, stats[0].TotalStudyTime)
	assert.Equal(t, "Math", stats[1].Name)
	// Предмет без сессий присутствует с нулями и пустым last_studied
	assert.Equal(t, "History", stats[2].Name)
	assert.Equal(t, 0, stats[2].SessionCount)
	assert.Equal(t, "", stats[2].LastStudied)
	assert.NotEmpty(t, stats[0].LastStudied)
}

func TestDashboard(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	var sessions []SessionRecord
	for i := 0; i < 12; i++ {
		sessions = append(sessions, SessionRecord{
			UserID:      uint(i%3 + 1),
			SubjectName: fmt.Sprintf("Subject %d", i),
			TimeSpent:   float64(i + 1),
			Timestamp:   now.AddDate(0, 0, -i),
		})
	}
	// Сессия старше 30 дней: в топ попадает, в дневную активность нет
	sessions = append(sessions, SessionRecord{
		SubjectName: "Ancient",
		TimeSpent:   100,
		Timestamp:   now.AddDate(0, 0, -60),
	})

	counts := OverviewCounts{TotalUsers: 3, TotalSubjects: 13, TotalSessions: 13, TotalAudioNotes: 2}
	recent := RecentActivity{NewUsers: 1, NewSessions: 7, NewAudioNotes: 2}

	report := Dashboard(sessions, counts, recent, now)

	assert.Equal(t, counts, report.Overview)
	assert.Equal(t, recent, report.RecentActivity)
	assert.Len(t, report.DailyActivity, 12)
	assert.NotContains(t, report.DailyActivity, "2024-01-10")

	assert.Len(t, report.TopSubjects, 10)
	assert.Equal(t, "Ancient", report.TopSubjects[0].Name)
	assert.Equal(t, 100.0, report.TopSubjects[0].TotalTime)
	assert.Equal(t, "Subject 11", report.TopSubjects[1].Name)
}

func TestUsageAnalytics(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 30)

	signups := []time.Time{
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -1).Add(time.Hour),
		now.AddDate(0, 0, -60), // вне окна
	}
	sessions := []SessionRecord{
		{UserID: 1, TimeSpent: 2, Timestamp: now.AddDate(0, 0, -2)},
		{UserID: 1, TimeSpent: 1, Timestamp: now.AddDate(0, 0, -2).Add(time.Hour)},
		{UserID: 2, TimeSpent: 3, Timestamp: now.AddDate(0, 0, -5)},
	}

	report := UsageAnalytics(signups, sessions, 4, w)

	assert.Equal(t, 2, report.DailyUsers["2024-03-09"])
	assert.Len(t, report.DailyUsers, 1)
	assert.Equal(t, DailySessionStat{Count: 2, TotalTime: 3}, report.DailySessions["2024-03-08"])
	assert.Equal(t, 2, report.Engagement.ActiveUsers)
	assert.Equal(t, 50.0, report.Engagement.EngagementRate)
}

func TestUsageAnalyticsNoUsers(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 30)

	report := UsageAnalytics(nil, nil, 0, w)
	assert.Equal(t, 0.0, report.Engagement.EngagementRate)
	assert.Equal(t, 0, report.Engagement.ActiveUsers)
}

func TestUserActivity(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	w, _ := ResolveWindow(now, 30)

	notes := []NoteRecord{
		{Timestamp: now.Add(-time.Hour)},
		{Timestamp: now.AddDate(0, 0, -45)},
	}

	summary := UserActivity(sampleSessions(), notes, w)
	assert.Equal(t, 4, summary.Sessions)
	assert.Equal(t, 1, summary.AudioNotes)
	assert.Equal(t, 5.0, summary.TotalStudyTime)
}

func TestAudioStats(t *testing.T) {
	// 2024-03-08 пятница, 2024-03-09 суббота
	notes := []NoteRecord{
		{ID: 1, Duration: 90, Timestamp: time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Duration: 30, Timestamp: time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)},
		{ID: 3, Duration: 60, Timestamp: time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)},
	}

	report := AudioStats(notes)

	assert.Equal(t, 3, report.TotalNotes)
	assert.Equal(t, 3.0, report.TotalDurationMinutes)
	assert.Equal(t, 60.0, report.AverageDurationSeconds)
	assert.Equal(t, map[string]int{"Friday": 2, "Saturday": 1}, report.NotesByDay)
}

func TestAudioStatsEmpty(t *testing.T) {
	report := AudioStats(nil)

	assert.Equal(t, 0, report.TotalNotes)
	assert.Equal(t, 0.0, report.TotalDurationMinutes)
	assert.Equal(t, 0.0, report.AverageDurationSeconds)
	assert.Empty(t, report.NotesByDay)
}
