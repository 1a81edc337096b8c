package workload

import "sort"

// rankRows orders rows descending by score, breaking ties by overdue count
// and then total count. The sort is stable, so repeated computation over
// identical input yields identical order.
func rankRows(rows []*Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Overdue != b.Overdue {
			return a.Overdue > b.Overdue
		}
		return a.Total > b.Total
	})
}
