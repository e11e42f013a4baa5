package analytics

import "sort"

// ExtremumKind выбирает направление поиска экстремума.
type ExtremumKind int

const (
	MaxOf ExtremumKind = iota
	MinOf
)

// TopN возвращает группы, упорядоченные по metric по убыванию. Сортировка
// стабильная: группы с равной метрикой сохраняют исходный порядок.
// n <= 0 означает "вернуть все".
func TopN(groups []GroupAggregate, metric func(Bucket) float64, n int) []GroupAggregate {
	ranked := make([]GroupAggregate, len(groups))
	copy(ranked, groups)

	sort.SliceStable(ranked, func(i, j int) bool {
		return metric(ranked[i].Bucket) > metric(ranked[j].Bucket)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Extremum возвращает группу с максимальной или минимальной метрикой.
// Пустой вход - это ErrNoData: вызывающая сторона подставляет заглушку
// вместо того, чтобы пробрасывать ошибку до транспортной границы.
func Extremum(groups []GroupAggregate, metric func(Bucket) float64, kind ExtremumKind) (GroupAggregate, error) {
	if len(groups) == 0 {
		return GroupAggregate{}, ErrNoData
	}

	best := groups[0]
	bestVal := metric(best.Bucket)
	for _, g := range groups[1:] {
		v := metric(g.Bucket)
		if (kind == MaxOf && v > bestVal) || (kind == MinOf && v < bestVal) {
			best = g
			bestVal = v
		}
	}
	return best, nil
}

// TotalTime - метрика ранжирования по суммарному времени.
func TotalTime(b Bucket) float64 {
	return b.TotalTime
}

// SessionCount - метрика ранжирования по числу сессий.
func SessionCount(b Bucket) float64 {
	return float64(b.Count)
}
