package analytics

import "time"

// SessionRecord - снимок учебной сессии, передаваемый движку аналитики.
// Записи приходят уже отфильтрованными по владельцу, движок их не изменяет.
type SessionRecord struct {
	ID           uint
	UserID       uint
	SubjectID    uint
	SubjectName  string
	SubjectColor string
	TimeSpent    float64 // часы
	Topic        string
	FocusLevel   *int // 1-10, nil если не указан
	Timestamp    time.Time
}

// NoteRecord - снимок аудиозаметки пользователя.
type NoteRecord struct {
	ID         uint
	UserID     uint
	Transcript string
	Duration   float64 // секунды
	Timestamp  time.Time
}

// SubjectInfo - минимальные данные предмета для сводок по предметам.
type SubjectInfo struct {
	ID    uint
	Name  string
	Color string
}
