package analytics

import (
	"fmt"
	"math"
	"time"
)

// Сколько тем показывается во внешних сводках. Внутри движка списки тем
// не усекаются, лимит применяется только при сборке ответа.
const topicsDisplayLimit = 5

// PeriodInfo описывает окно, за которое построен отчет.
type PeriodInfo struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// AnalyticsSummary - итоговые показатели отчета по пользователю.
type AnalyticsSummary struct {
	TotalTime             float64 `json:"total_time"`
	TotalSessions         int     `json:"total_sessions"`
	AverageFocusLevel     float64 `json:"average_focus_level"`
	AverageTimePerSession float64 `json:"average_time_per_session"`
}

// DailyStat - время и число сессий за один календарный день.
type DailyStat struct {
	Time     float64 `json:"time"`
	Sessions int     `json:"sessions"`
}

// SubjectStat - время, число сессий и цвет предмета в разрезе по предметам.
type SubjectStat struct {
	Time     float64 `json:"time"`
	Sessions int     `json:"sessions"`
	Color    string  `json:"color"`
}

// AnalyticsReport - отчет по активности одного пользователя.
type AnalyticsReport struct {
	Period           PeriodInfo             `json:"period"`
	Summary          AnalyticsSummary       `json:"summary"`
	DailyBreakdown   map[string]DailyStat   `json:"daily_breakdown"`
	SubjectBreakdown map[string]SubjectStat `json:"subject_breakdown"`
}

// UserAnalytics собирает отчет по активности пользователя за окно w.
// sessions - записи пользователя; фильтрация по окну выполняется здесь,
// фильтрация по владельцу - обязанность вызывающей стороны.
func UserAnalytics(sessions []SessionRecord, w Window) AnalyticsReport {
	inWindow := w.FilterSessions(sessions)

	total := Aggregate(inWindow)
	summary := AnalyticsSummary{
		TotalTime:         round2(total.TotalTime),
		TotalSessions:     total.Count,
		AverageFocusLevel: round2(total.AverageFocus()),
	}
	if total.Count > 0 {
		summary.AverageTimePerSession = round2(total.TotalTime / float64(total.Count))
	}

	daily := make(map[string]DailyStat)
	for _, agg := range AggregateGroups(GroupSessions(inWindow, ByDate)) {
		daily[agg.Key] = DailyStat{
			Time:     round2(agg.Bucket.TotalTime),
			Sessions: agg.Bucket.Count,
		}
	}

	bySubject := make(map[string]SubjectStat)
	for _, agg := range AggregateGroups(GroupSessions(inWindow, BySubject)) {
		bySubject[agg.Key] = SubjectStat{
			Time:     round2(agg.Bucket.TotalTime),
			Sessions: agg.Bucket.Count,
			Color:    agg.Bucket.Color,
		}
	}

	return AnalyticsReport{
		Period:           periodInfo(w),
		Summary:          summary,
		DailyBreakdown:   daily,
		SubjectBreakdown: bySubject,
	}
}

// SubjectHighlight - предмет-экстремум недельной сводки.
type SubjectHighlight struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// InsightsReport - недельная сводка по пользователю.
type InsightsReport struct {
	TotalStudyTime      float64          `json:"total_study_time"`
	TotalSessions       int              `json:"total_sessions"`
	AverageFocusLevel   float64          `json:"average_focus_level"`
	MostStudiedSubject  SubjectHighlight `json:"most_studied_subject"`
	LeastStudiedSubject SubjectHighlight `json:"least_studied_subject"`
	ReflectionCount     int              `json:"reflection_count"`
	SubjectsStudied     int              `json:"subjects_studied"`
}

// WeeklyInsights собирает сводку по сессиям и аудиозаметкам за окно w.
// При полном отсутствии сессий экстремумы заменяются заглушками
// (пустое имя, нулевое время), ошибка наружу не выходит.
func WeeklyInsights(sessions []SessionRecord, notes []NoteRecord, w Window) InsightsReport {
	inWindow := w.FilterSessions(sessions)
	subjects := AggregateGroups(GroupSessions(inWindow, BySubject))

	total := Aggregate(inWindow)
	report := InsightsReport{
		TotalStudyTime:    round2(total.TotalTime),
		TotalSessions:     total.Count,
		AverageFocusLevel: round2(total.AverageFocus()),
		SubjectsStudied:   len(subjects),
	}

	if most, err := Extremum(subjects, TotalTime, MaxOf); err == nil {
		report.MostStudiedSubject = SubjectHighlight{Name: most.Key, Time: round2(most.Bucket.TotalTime)}
	}
	if least, err := Extremum(subjects, TotalTime, MinOf); err == nil {
		report.LeastStudiedSubject = SubjectHighlight{Name: least.Key, Time: round2(least.Bucket.TotalTime)}
	}

	for _, n := range w.FilterNotes(notes) {
		if n.Transcript != "" {
			report.ReflectionCount++
		}
	}
	return report
}

// SubjectStatsSummary - вычисленные показатели одного предмета.
type SubjectStatsSummary struct {
	TotalTime    float64 `json:"total_time"`
	Sessions     int     `json:"sessions"`
	AverageFocus float64 `json:"average_focus"`
}

// SubjectFeedbackReport - обратная связь по одному предмету. Когда сессий
// в окне нет, Stats отсутствует и возвращается статическая подсказка:
// это явная ветка, а не вырожденное вычисление.
type SubjectFeedbackReport struct {
	SubjectName string               `json:"subject_name"`
	Feedback    string               `json:"feedback"`
	Suggestions []string             `json:"suggestions,omitempty"`
	Stats       *SubjectStatsSummary `json:"stats,omitempty"`
	Topics      []string             `json:"topics,omitempty"`
}

// SubjectFeedback собирает статистику по одному предмету за окно w.
// sessions должны быть уже ограничены этим предметом.
func SubjectFeedback(subjectName string, sessions []SessionRecord, w Window) SubjectFeedbackReport {
	inWindow := w.FilterSessions(sessions)

	if len(inWindow) == 0 {
		return SubjectFeedbackReport{
			SubjectName: subjectName,
			Feedback:    fmt.Sprintf("No recent study sessions for %s. Start studying to get personalized feedback!", subjectName),
			Suggestions: []string{
				"Schedule regular study sessions for this subject",
				"Set specific goals for what you want to learn",
			},
		}
	}

	b := Aggregate(inWindow)
	topics := b.Topics
	if len(topics) > topicsDisplayLimit {
		topics = topics[:topicsDisplayLimit]
	}

	return SubjectFeedbackReport{
		SubjectName: subjectName,
		Feedback:    fmt.Sprintf("Great work studying %s! Keep up the consistent effort.", subjectName),
		Stats: &SubjectStatsSummary{
			TotalTime:    round2(b.TotalTime),
			Sessions:     b.Count,
			AverageFocus: round2(b.AverageFocus()),
		},
		Topics: topics,
	}
}

// SubjectOverview - сводка предмета для списка статистики по предметам.
type SubjectOverview struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Color             string  `json:"color"`
	TotalStudyTime    float64 `json:"total_study_time"`
	SessionCount      int     `json:"session_count"`
	AverageFocusLevel float64 `json:"average_focus_level"`
	LastStudied       string  `json:"last_studied,omitempty"`
}

// SubjectStatsList собирает сводку по каждому предмету владельца, включая
// предметы без сессий, и сортирует по суммарному времени по убыванию.
func SubjectStatsList(subjects []SubjectInfo, sessions []SessionRecord) []SubjectOverview {
	byID := GroupSessions(sessions, func(r SessionRecord) string {
		return fmt.Sprintf("%d", r.SubjectID)
	})

	info := make(map[string]SubjectInfo, len(subjects))
	aggs := make([]GroupAggregate, 0, len(subjects))
	for _, s := range subjects {
		key := fmt.Sprintf("%d", s.ID)
		info[key] = s
		aggs = append(aggs, GroupAggregate{Key: key, Bucket: Aggregate(byID.Get(key))})
	}

	overview := make([]SubjectOverview, 0, len(aggs))
	for _, agg := range TopN(aggs, TotalTime, 0) {
		s := info[agg.Key]
		o := SubjectOverview{
			ID:                s.ID,
			Name:              s.Name,
			Color:             s.Color,
			TotalStudyTime:    round2(agg.Bucket.TotalTime),
			SessionCount:      agg.Bucket.Count,
			AverageFocusLevel: round2(agg.Bucket.AverageFocus()),
		}
		if !agg.Bucket.LastStudied.IsZero() {
			o.LastStudied = agg.Bucket.LastStudied.UTC().Format(time.RFC3339)
		}
		overview = append(overview, o)
	}
	return overview
}

// OverviewCounts - общие счетчики платформы для админской панели.
type OverviewCounts struct {
	TotalUsers      int64 `json:"total_users"`
	TotalSubjects   int64 `json:"total_subjects"`
	TotalSessions   int64 `json:"total_sessions"`
	TotalAudioNotes int64 `json:"total_audio_notes"`
}

// RecentActivity - приросты за последние 7 дней.
type RecentActivity struct {
	NewUsers      int64 `json:"new_users"`
	NewSessions   int64 `json:"new_sessions"`
	NewAudioNotes int64 `json:"new_audio_notes"`
}

// TopSubject - позиция предмета в общем рейтинге платформы.
type TopSubject struct {
	Name      string  `json:"name"`
	Sessions  int     `json:"sessions"`
	TotalTime float64 `json:"total_time"`
}

// DashboardReport - админская панель по всей платформе.
type DashboardReport struct {
	Overview       OverviewCounts `json:"overview"`
	RecentActivity RecentActivity `json:"recent_activity"`
	DailyActivity  map[string]int `json:"daily_activity"`
	TopSubjects    []TopSubject   `json:"top_subjects"`
}

// Dashboard собирает админскую панель: счетчики приходят от хранилища,
// дневная активность считается за 30 дней, топ-10 предметов - по всем
// переданным сессиям платформы (кросс-пользовательский рейтинг).
func Dashboard(sessions []SessionRecord, counts OverviewCounts, recent RecentActivity, now time.Time) DashboardReport {
	w, _ := ResolveWindow(now, DefaultDashboardDays)

	daily := make(map[string]int)
	for _, agg := range AggregateGroups(GroupSessions(w.FilterSessions(sessions), ByDate)) {
		daily[agg.Key] = agg.Bucket.Count
	}

	top := make([]TopSubject, 0, 10)
	for _, agg := range TopN(AggregateGroups(GroupSessions(sessions, BySubject)), TotalTime, 10) {
		top = append(top, TopSubject{
			Name:      agg.Key,
			Sessions:  agg.Bucket.Count,
			TotalTime: round2(agg.Bucket.TotalTime),
		})
	}

	return DashboardReport{
		Overview:       counts,
		RecentActivity: recent,
		DailyActivity:  daily,
		TopSubjects:    top,
	}
}

// DailySessionStat - число сессий и суммарное время за один день.
type DailySessionStat struct {
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
}

// EngagementStats - показатели вовлеченности платформы.
type EngagementStats struct {
	ActiveUsers    int     `json:"active_users"`
	TotalUsers     int64   `json:"total_users"`
	EngagementRate float64 `json:"engagement_rate"`
}

// UsageReport - админская аналитика использования платформы.
type UsageReport struct {
	Period        PeriodInfo                  `json:"period"`
	DailyUsers    map[string]int              `json:"daily_users"`
	DailySessions map[string]DailySessionStat `json:"daily_sessions"`
	Engagement    EngagementStats             `json:"engagement"`
}

// UsageAnalytics собирает аналитику использования за окно w: регистрации
// по дням, сессии по дням и долю активных пользователей. При нулевом числе
// пользователей вовлеченность равна 0.
func UsageAnalytics(signups []time.Time, sessions []SessionRecord, totalUsers int64, w Window) UsageReport {
	dailyUsers := make(map[string]int)
	for _, s := range signups {
		if w.Contains(s) {
			dailyUsers[s.UTC().Format("2006-01-02")]++
		}
	}

	inWindow := w.FilterSessions(sessions)
	dailySessions := make(map[string]DailySessionStat)
	for _, agg := range AggregateGroups(GroupSessions(inWindow, ByDate)) {
		dailySessions[agg.Key] = DailySessionStat{
			Count:     agg.Bucket.Count,
			TotalTime: round2(agg.Bucket.TotalTime),
		}
	}

	active := make(map[uint]bool)
	for _, r := range inWindow {
		active[r.UserID] = true
	}

	engagement := EngagementStats{
		ActiveUsers: len(active),
		TotalUsers:  totalUsers,
	}
	if totalUsers > 0 {
		engagement.EngagementRate = round2(float64(len(active)) / float64(totalUsers) * 100)
	}

	return UsageReport{
		Period:        periodInfo(w),
		DailyUsers:    dailyUsers,
		DailySessions: dailySessions,
		Engagement:    engagement,
	}
}

// UserActivitySummary - недавняя активность одного пользователя для
// админской карточки.
type UserActivitySummary struct {
	Sessions       int     `json:"sessions"`
	AudioNotes     int     `json:"audio_notes"`
	TotalStudyTime float64 `json:"total_study_time"`
}

// UserActivity сводит недавнюю активность пользователя за окно w.
func UserActivity(sessions []SessionRecord, notes []NoteRecord, w Window) UserActivitySummary {
	b := Aggregate(w.FilterSessions(sessions))
	return UserActivitySummary{
		Sessions:       b.Count,
		AudioNotes:     len(w.FilterNotes(notes)),
		TotalStudyTime: round2(b.TotalTime),
	}
}

// AudioStatsReport - сводка по аудиозаметкам пользователя за всю историю.
type AudioStatsReport struct {
	TotalNotes             int            `json:"total_notes"`
	TotalDurationMinutes   float64        `json:"total_duration_minutes"`
	AverageDurationSeconds float64        `json:"average_duration_seconds"`
	NotesByDay             map[string]int `json:"notes_by_day"`
}

// AudioStats считает суммарную и среднюю длительность заметок и их
// распределение по дням недели. Длительности хранятся в секундах,
// суммарная отдается в минутах.
func AudioStats(notes []NoteRecord) AudioStatsReport {
	report := AudioStatsReport{NotesByDay: make(map[string]int)}
	var totalSeconds float64
	for _, n := range notes {
		totalSeconds += n.Duration
		report.NotesByDay[weekdayName(n.Timestamp)]++
	}
	report.TotalNotes = len(notes)
	report.TotalDurationMinutes = round2(totalSeconds / 60)
	if len(notes) > 0 {
		report.AverageDurationSeconds = round2(totalSeconds / float64(len(notes)))
	}
	return report
}

func periodInfo(w Window) PeriodInfo {
	return PeriodInfo{
		StartDate: w.Start.UTC().Format(time.RFC3339),
		EndDate:   w.End.UTC().Format(time.RFC3339),
		Days:      w.Days,
	}
}

// round2 округляет до двух знаков. Применяется ровно один раз, на границе
// ответа: внутренние накопители остаются неокругленными.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
