package analytics

import (
	"sort"
	"time"
)

// StreakResult - текущая и самая длинная серия учебных дней подряд.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// ComputeStreak вычисляет серии по множеству дат сессий. Несколько сессий
// в один день считаются одним днем. Текущей считается только серия,
// заканчивающаяся самой свежей датой, и только если эта дата - сегодня или
// вчера (сегодняшний день может быть еще не начат). Самая длинная серия
// ищется по всей истории независимо от сегодняшнего дня.
func ComputeStreak(timestamps []time.Time, today time.Time) StreakResult {
	dates := distinctDatesDesc(timestamps)
	if len(dates) == 0 {
		return StreakResult{}
	}

	// Проход по убыванию дат: длина серии растет, пока разрыв между
	// соседними датами ровно один день.
	longest := 0
	firstRun := 0
	run := 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].Sub(dates[i]) == 24*time.Hour {
			run++
			continue
		}
		if firstRun == 0 {
			firstRun = run
		}
		if run > longest {
			longest = run
		}
		run = 1
	}
	if firstRun == 0 {
		firstRun = run
	}
	if run > longest {
		longest = run
	}

	current := 0
	todayDate := toDate(today)
	yesterday := todayDate.AddDate(0, 0, -1)
	if dates[0].Equal(todayDate) || dates[0].Equal(yesterday) {
		current = firstRun
	}

	return StreakResult{CurrentStreak: current, LongestStreak: longest}
}

// distinctDatesDesc нормализует моменты к календарным датам UTC, убирает
// дубликаты и сортирует по убыванию.
func distinctDatesDesc(timestamps []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(timestamps))
	dates := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		d := toDate(ts)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
