package search

import "pandacare/internal/user"

// CareGiverResult is the lite directory entry returned by search
// endpoints. It intentionally carries no NIK, email or home address.
type CareGiverResult struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Speciality    string  `json:"speciality"`
	WorkAddress   string  `json:"workAddress"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
}

// Page wraps one page of search results.
type Page struct {
	Content       []CareGiverResult `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int               `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

func toResult(u *user.User) CareGiverResult {
	r := CareGiverResult{ID: u.ID, Name: u.Name}
	if u.CareGiver != nil {
		r.Speciality = u.CareGiver.Speciality
		r.WorkAddress = u.CareGiver.WorkAddress
		r.AverageRating = u.CareGiver.AverageRating
		r.RatingCount = u.CareGiver.RatingCount
	}
	return r
}
