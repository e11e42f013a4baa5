package analytics

import "time"

// Окна по умолчанию для разных потребителей движка.
const (
	DefaultInsightsDays  = 7
	DefaultDashboardDays = 30
)

// Window - временное окно для фильтрации записей. Обе границы включительно:
// запись с Timestamp == Start или == End попадает в выборку.
type Window struct {
	Start time.Time
	End   time.Time
	Days  int
}

// ResolveWindow превращает запрос "последние N дней" в конкретное окно,
// привязанное к моменту now. Неположительное days отклоняется, движок
// никогда не подменяет его молча.
func ResolveWindow(now time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, ErrInvalidWindow
	}
	return Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
		Days:  days,
	}, nil
}

// Contains сообщает, попадает ли момент t в окно.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// FilterSessions возвращает записи сессий, попавшие в окно, сохраняя порядок.
func (w Window) FilterSessions(records []SessionRecord) []SessionRecord {
	filtered := make([]SessionRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterNotes возвращает аудиозаметки, попавшие в окно, сохраняя порядок.
func (w Window) FilterNotes(notes []NoteRecord) []NoteRecord {
	filtered := make([]NoteRecord, 0, len(notes))
	for _, n := range notes {
		if w.Contains(n.Timestamp) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
