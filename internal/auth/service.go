// Package auth implements credential verification, registration and
// token validation on top of the user store and the token service.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pandacare/internal/jwttoken"
	"pandacare/internal/platform/metrics"
	"pandacare/internal/user"
	dErrors "pandacare/pkg/domain-errors"
)

// ErrInvalidCredentials covers both an unknown email and a wrong
// password. The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

type Service struct {
	users   user.Store
	tokens  *jwttoken.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(users user.Store, tokens *jwttoken.Service, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, metrics: m, logger: logger}
}

// Login verifies the credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.IncLogin("failure")
			return LoginResponse{}, ErrInvalidCredentials
		}
		return LoginResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.metrics.IncLogin("failure")
		return LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return LoginResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}

	s.metrics.IncLogin("success")
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return LoginResponse{
		Token: token,
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: u.RoleNames(),
	}, nil
}

// RegisterPatient creates a patient account. Email and NIK must be
// unique across all users.
func (s *Service) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (*user.User, error) {
	if err := s.checkRegistration(ctx, req.Email, req.Password, req.Name, req.NIK); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := user.NewPatient(req.Email, hash, req.Name, req.NIK, req.Address, req.Phone, req.MedicalHistory)
	if err := s.users.Save(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save patient")
	}

	s.metrics.IncRegistration(string(user.KindPatient))
	s.logger.InfoContext(ctx, "patient registered", "user_id", u.ID)
	return u, nil
}

// RegisterCareGiver creates a caregiver account with its working
// schedules.
func (s *Service) RegisterCareGiver(ctx context.Context, req RegisterCareGiverRequest) (*user.User, error) {
	if err := s.checkRegistration(ctx, req.Email, req.Password, req.Name, req.NIK); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Speciality) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "speciality is required")
	}

	schedules := make([]user.WorkingSchedule, 0, len(req.Schedules))
	for _, in := range req.Schedules {
		ws, err := parseSchedule(in)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, ws)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := user.NewCareGiver(req.Email, hash, req.Name, req.NIK, req.Address, req.Phone, req.Speciality, req.WorkAddress)
	u.CareGiver.Schedules = schedules
	if err := s.users.Save(ctx, u); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save caregiver")
	}

	s.metrics.IncRegistration(string(user.KindCareGiver))
	s.logger.InfoContext(ctx, "caregiver registered", "user_id", u.ID)
	return u, nil
}

// ValidateToken reports whether a token is currently valid and, when it
// is, describes the identity behind it. Invalid tokens are a negative
// answer, not an error.
func (s *Service) ValidateToken(ctx context.Context, token string) TokenInfo {
	if !s.tokens.Validate(token) {
		s.metrics.IncTokenValidation("invalid")
		return TokenInfo{Valid: false}
	}

	subject, err := s.tokens.Subject(token)
	if err != nil {
		s.metrics.IncTokenValidation("invalid")
		return TokenInfo{Valid: false}
	}

	u, err := s.users.FindByID(ctx, subject)
	if err != nil {
		// A token outliving its user is treated as invalid.
		s.metrics.IncTokenValidation("orphaned")
		return TokenInfo{Valid: false}
	}

	s.metrics.IncTokenValidation("valid")
	return TokenInfo{
		Valid:  true,
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.RoleNames(),
	}
}

func (s *Service) checkRegistration(ctx context.Context, email, password, name, nik string) error {
	switch {
	case strings.TrimSpace(email) == "" || !strings.Contains(email, "@"):
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	case len(password) < 8:
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	case strings.TrimSpace(name) == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case strings.TrimSpace(nik) == "":
		return dErrors.New(dErrors.CodeValidation, "nik is required")
	}

	if exists, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check email uniqueness")
	} else if exists {
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	}

	if exists, err := s.users.ExistsByNIK(ctx, nik); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check nik uniqueness")
	} else if exists {
		return dErrors.New(dErrors.CodeConflict, "nik already registered")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}
	return string(hash), nil
}

func parseSchedule(in ScheduleInput) (user.WorkingSchedule, error) {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return user.WorkingSchedule{}, dErrors.New(dErrors.CodeValidation, "dayOfWeek must be between 0 and 6")
	}
	for _, v := range []string{in.StartTime, in.EndTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return user.WorkingSchedule{}, dErrors.New(dErrors.CodeValidation, "schedule times must use HH:MM")
		}
	}
	return user.WorkingSchedule{
		DayOfWeek: time.Weekday(in.DayOfWeek),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Available: true,
	}, nil
}
