package analytics

import "time"

// Grouping - упорядоченное разбиение записей по строковому ключу.
// Ключи хранятся в порядке первого появления, записи внутри группы
// сохраняют исходный порядок.
type Grouping struct {
	keys   []string
	groups map[string][]SessionRecord
}

// GroupSessions разбивает записи по ключу keyFn. Пустой вход дает пустое
// разбиение, это не ошибка.
func GroupSessions(records []SessionRecord, keyFn func(SessionRecord) string) *Grouping {
	g := &Grouping{groups: make(map[string][]SessionRecord)}
	for _, r := range records {
		key := keyFn(r)
		if _, seen := g.groups[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(g.groups[key], r)
	}
	return g
}

// Keys возвращает ключи в порядке первого появления.
func (g *Grouping) Keys() []string {
	return g.keys
}

// Get возвращает записи группы key.
func (g *Grouping) Get(key string) []SessionRecord {
	return g.groups[key]
}

// Len возвращает количество групп.
func (g *Grouping) Len() int {
	return len(g.keys)
}

// ByDate - ключ группировки по календарной дате (UTC, YYYY-MM-DD).
func ByDate(r SessionRecord) string {
	return r.Timestamp.UTC().Format("2006-01-02")
}

// BySubject - ключ группировки по названию предмета.
func BySubject(r SessionRecord) string {
	return r.SubjectName
}

// ByWeekday - ключ группировки по дню недели.
func ByWeekday(r SessionRecord) string {
	return weekdayName(r.Timestamp)
}

func weekdayName(t time.Time) string {
	return t.UTC().Weekday().String()
}
