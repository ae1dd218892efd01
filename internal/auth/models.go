package auth

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued bearer token together with the
// identity it asserts, so clients need no follow-up profile call.
type LoginResponse struct {
	Token string   `json:"token"`
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// ScheduleInput is one recurring availability slot submitted at
// caregiver registration.
type ScheduleInput struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
}

// RegisterPatientRequest carries a patient registration.
type RegisterPatientRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	NIK            string `json:"nik"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	MedicalHistory string `json:"medicalHistory"`
}

// RegisterCareGiverRequest carries a caregiver registration.
type RegisterCareGiverRequest struct {
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Name        string          `json:"name"`
	NIK         string          `json:"nik"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Speciality  string          `json:"speciality"`
	WorkAddress string          `json:"workAddress"`
	Schedules   []ScheduleInput `json:"workingSchedules"`
}

// RegisterResponse acknowledges a completed registration.
type RegisterResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// TokenInfo is the result of a token validation request. When Valid is
// false the remaining fields are zero.
type TokenInfo struct {
	Valid  bool     `json:"valid"`
	UserID int64    `json:"userId,omitempty"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}
