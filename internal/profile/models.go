package profile

import "pandacare/internal/user"

// ScheduleResponse mirrors one working schedule slot.
type ScheduleResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// ProfileResponse is the full profile view a user gets of themselves,
// or a caregiver gets of anyone. Kind-specific fields are omitted when
// they do not apply.
type ProfileResponse struct {
	ID      int64    `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	NIK     string   `json:"nik"`
	Address string   `json:"address,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Roles   []string `json:"roles"`
	Kind    string   `json:"kind"`

	MedicalHistory string `json:"medicalHistory,omitempty"`

	Speciality    string             `json:"speciality,omitempty"`
	WorkAddress   string             `json:"workAddress,omitempty"`
	AverageRating float64            `json:"averageRating,omitempty"`
	RatingCount   int                `json:"ratingCount,omitempty"`
	Schedules     []ScheduleResponse `json:"workingSchedules,omitempty"`
}

// CareGiverResponse is the public caregiver view shown to patients
// browsing the directory. It carries no NIK and no contact address.
type CareGiverResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Speciality    string             `json:"speciality"`
	WorkAddress   string             `json:"workAddress"`
	AverageRating float64            `json:"averageRating"`
	RatingCount   int                `json:"ratingCount"`
	Schedules     []ScheduleResponse `json:"workingSchedules,omitempty"`
}

// UserNameResponse answers the name lookup endpoint.
type UserNameResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MedicalHistoryResponse answers the medical history endpoint.
type MedicalHistoryResponse struct {
	ID             int64  `json:"id"`
	MedicalHistory string `json:"medicalHistory"`
}

// UpdateRequest carries a profile update. Nil fields are left
// untouched; fields that do not apply to the user's kind are rejected.
type UpdateRequest struct {
	Email          *string `json:"email"`
	Name           *string `json:"name"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	MedicalHistory *string `json:"medicalHistory"`
	Speciality     *string `json:"speciality"`
	WorkAddress    *string `json:"workAddress"`
}

// UpdateResponse returns the updated profile. Token is set only when
// the email changed: the old token's identity claims are stale, so a
// fresh one is issued in the same response.
type UpdateResponse struct {
	Profile ProfileResponse `json:"profile"`
	Token   string          `json:"token,omitempty"`
}

func toProfileResponse(u *user.User) ProfileResponse {
	resp := ProfileResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		NIK:     u.NIK,
		Address: u.Address,
		Phone:   u.Phone,
		Roles:   u.RoleNames(),
		Kind:    string(u.Kind),
	}
	if u.Patient != nil {
		resp.MedicalHistory = u.Patient.MedicalHistory
	}
	if u.CareGiver != nil {
		resp.Speciality = u.CareGiver.Speciality
		resp.WorkAddress = u.CareGiver.WorkAddress
		resp.AverageRating = u.CareGiver.AverageRating
		resp.RatingCount = u.CareGiver.RatingCount
		resp.Schedules = toScheduleResponses(u.CareGiver.Schedules)
	}
	return resp
}

func toCareGiverResponse(u *user.User) CareGiverResponse {
	resp := CareGiverResponse{
		ID:   u.ID,
		Name: u.Name,
	}
	if u.CareGiver != nil {
		resp.Speciality = u.CareGiver.Speciality
		resp.WorkAddress = u.CareGiver.WorkAddress
		resp.AverageRating = u.CareGiver.AverageRating
		resp.RatingCount = u.CareGiver.RatingCount
		resp.Schedules = toScheduleResponses(u.CareGiver.Schedules)
	}
	return resp
}

func toScheduleResponses(schedules []user.WorkingSchedule) []ScheduleResponse {
	if len(schedules) == 0 {
		return nil
	}
	out := make([]ScheduleResponse, 0, len(schedules))
	for _, ws := range schedules {
		out = append(out, ScheduleResponse{
			DayOfWeek: int(ws.DayOfWeek),
			StartTime: ws.StartTime,
			EndTime:   ws.EndTime,
			Available: ws.Available,
		})
	}
	return out
}
