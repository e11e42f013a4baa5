package analytics

import "time"

// Bucket - накопитель сводных значений одной группы. Живет только в рамках
// одного вызова движка и никогда не сохраняется.
type Bucket struct {
	Count       int
	TotalTime   float64
	Color       string
	Topics      []string
	LastStudied time.Time

	focusSum   int
	focusCount int
}

// Aggregate сводит группу записей в Bucket. Пустая группа дает нулевой
// bucket. Записи без focus_level не участвуют ни в сумме, ни в знаменателе
// среднего. Значения не округляются: округление выполняется один раз,
// на границе ответа.
func Aggregate(group []SessionRecord) Bucket {
	var b Bucket
	for _, r := range group {
		b.Count++
		b.TotalTime += r.TimeSpent
		if r.FocusLevel != nil {
			b.focusSum += *r.FocusLevel
			b.focusCount++
		}
		if r.Topic != "" {
			b.Topics = append(b.Topics, r.Topic)
		}
		if b.Color == "" {
			b.Color = r.SubjectColor
		}
		if r.Timestamp.After(b.LastStudied) {
			b.LastStudied = r.Timestamp
		}
	}
	return b
}

// AverageFocus возвращает среднее по имеющимся focus_level. Если ни одна
// запись группы не содержит focus_level, результат 0 - это штатное
// состояние "данных пока нет", а не ошибка.
func (b Bucket) AverageFocus() float64 {
	if b.focusCount == 0 {
		return 0
	}
	return float64(b.focusSum) / float64(b.focusCount)
}

// GroupAggregate - сводка одной группы вместе с ее ключом.
type GroupAggregate struct {
	Key    string
	Bucket Bucket
}

// AggregateGroups сводит каждую группу разбиения, сохраняя порядок ключей.
func AggregateGroups(g *Grouping) []GroupAggregate {
	aggs := make([]GroupAggregate, 0, g.Len())
	for _, key := range g.Keys() {
		aggs = append(aggs, GroupAggregate{Key: key, Bucket: Aggregate(g.Get(key))})
	}
	return aggs
}
