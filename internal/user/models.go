package user

import "time"

// Kind discriminates the concrete user aggregate. The set is closed:
// authorization dispatch switches on this tag, so adding a kind means
// adding a strategy.
type Kind string

const (
	KindPatient   Kind = "patient"
	KindCareGiver Kind = "caregiver"
)

// Role is attached at registration and immutable thereafter.
type Role string

const (
	RolePatient   Role = "PATIENT"
	RoleCareGiver Role = "CAREGIVER"
)

// WorkingSchedule is one recurring availability slot of a caregiver.
type WorkingSchedule struct {
	ID        int64
	DayOfWeek time.Weekday
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Available bool
}

// PatientProfile holds the patient-specific part of the aggregate.
type PatientProfile struct {
	MedicalHistory string
}

// CareGiverProfile holds the caregiver-specific part of the aggregate.
// AverageRating and RatingCount mirror the external rating subsystem
// and may lag behind it between cache refreshes.
type CareGiverProfile struct {
	Speciality    string
	WorkAddress   string
	AverageRating float64
	RatingCount   int
	Schedules     []WorkingSchedule
}

// User is the identity aggregate. Exactly one of Patient/CareGiver is
// non-nil, matching Kind.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	NIK          string
	Address      string
	Phone        string
	Roles        []Role
	Kind         Kind

	Patient   *PatientProfile
	CareGiver *CareGiverProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPatient builds a patient aggregate with its role attached.
func NewPatient(email, passwordHash, name, nik, address, phone, medicalHistory string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		NIK:          nik,
		Address:      address,
		Phone:        phone,
		Roles:        []Role{RolePatient},
		Kind:         KindPatient,
		Patient:      &PatientProfile{MedicalHistory: medicalHistory},
	}
}

// NewCareGiver builds a caregiver aggregate with its role attached.
func NewCareGiver(email, passwordHash, name, nik, address, phone, speciality, workAddress string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		NIK:          nik,
		Address:      address,
		Phone:        phone,
		Roles:        []Role{RoleCareGiver},
		Kind:         KindCareGiver,
		CareGiver:    &CareGiverProfile{Speciality: speciality, WorkAddress: workAddress},
	}
}

func (u *User) IsPatient() bool   { return u.Kind == KindPatient }
func (u *User) IsCareGiver() bool { return u.Kind == KindCareGiver }

// RoleNames returns the user's roles as plain strings for responses
// and token validation payloads.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}
