package order

import "time"

// SalesStats sums the totals of completed orders over calendar windows.
type SalesStats struct {
	Total  int64          `json:"total"`
	Today  int64          `json:"today"`
	Week   int64          `json:"week"`
	Month  int64          `json:"month"`
	Counts map[Status]int `json:"counts"`
}

// Summarize computes sales stats relative to now. Weeks start on Sunday.
func Summarize(orders []Order, now time.Time) SalesStats {
	stats := SalesStats{Counts: make(map[Status]int, len(Statuses))}
	for _, s := range Statuses {
		stats.Counts[s] = 0
	}

	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	for _, o := range orders {
		stats.Counts[o.Status]++
		if o.Status != StatusCompleted {
			continue
		}

		created := o.CreatedAt.In(loc)
		stats.Total += o.TotalPrice
		if !created.Before(dayStart) {
			stats.Today += o.TotalPrice
		}
		if !created.Before(weekStart) {
			stats.Week += o.TotalPrice
		}
		if !created.Before(monthStart) {
			stats.Month += o.TotalPrice
		}
	}

	return stats
}
