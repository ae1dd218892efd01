package rating

import "time"

// Rating is one review of a caregiver as served by the rating service.
type Rating struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultationId"`
	DoctorID       int64     `json:"doctorId"`
	Score          int       `json:"score"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Summary aggregates a caregiver's ratings.
type Summary struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// Summarize computes the aggregate over a rating list.
func Summarize(ratings []Rating) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	var sum int
	for _, r := range ratings {
		sum += r.Score
	}
	return Summary{
		AverageRating: float64(sum) / float64(len(ratings)),
		TotalRatings:  len(ratings),
	}
}
