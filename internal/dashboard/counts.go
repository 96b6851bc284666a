package dashboard

import "github.com/mypostula/backend/internal/app/models"

// Counts are the derived aggregates shown above the postulation list.
// Open includes interviews, expired postulations count only toward the
// total, and the total is simply the list length.
type Counts struct {
	Open     int `json:"open"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Total    int `json:"total"`
}

// ComputeCounts derives the aggregates from a postulation list
func ComputeCounts(postulations []models.Postulation) Counts {
	counts := Counts{Total: len(postulations)}

	for _, p := range postulations {
		switch p.Status {
		case models.StatusOpen, models.StatusInterview:
			counts.Open++
		case models.StatusAccepted:
			counts.Accepted++
		case models.StatusDeclined:
			counts.Declined++
		}
	}

	return counts
}
