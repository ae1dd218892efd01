// Package profile serves profile reads and updates for the
// authenticated user and the guarded cross-user lookups.
package profile

import (
	"context"
	"log/slog"
	"strings"

	"pandacare/internal/jwttoken"
	"pandacare/internal/user"
	dErrors "pandacare/pkg/domain-errors"
)

type Service struct {
	users  user.Store
	tokens *jwttoken.Service
	logger *slog.Logger
}

func NewService(users user.Store, tokens *jwttoken.Service, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// OwnProfile returns the caller's full profile.
func (s *Service) OwnProfile(ctx context.Context, userID int64) (ProfileResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(u), nil
}

// Profile returns any user's full profile. Access control happens in
// the guard; by the time this runs the caller is allowed to see it.
func (s *Service) Profile(ctx context.Context, id int64) (ProfileResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(u), nil
}

// CareGiver returns the public directory view of a caregiver.
func (s *Service) CareGiver(ctx context.Context, id int64) (CareGiverResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return CareGiverResponse{}, err
	}
	if !u.IsCareGiver() {
		return CareGiverResponse{}, dErrors.New(dErrors.CodeNotFound, "caregiver not found")
	}
	return toCareGiverResponse(u), nil
}

// UserName returns just a user's display name.
func (s *Service) UserName(ctx context.Context, id int64) (UserNameResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserNameResponse{}, err
	}
	return UserNameResponse{ID: u.ID, Name: u.Name}, nil
}

// MedicalHistory returns a patient's medical history.
func (s *Service) MedicalHistory(ctx context.Context, id int64) (MedicalHistoryResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return MedicalHistoryResponse{}, err
	}
	if !u.IsPatient() {
		return MedicalHistoryResponse{}, dErrors.New(dErrors.CodeNotFound, "patient not found")
	}
	return MedicalHistoryResponse{ID: u.ID, MedicalHistory: u.Patient.MedicalHistory}, nil
}

// Update applies the caller's profile changes. Changing the email
// reissues the bearer token in the same response, since the old token
// now identifies a login email that no longer exists.
func (s *Service) Update(ctx context.Context, userID int64, req UpdateRequest) (UpdateResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return UpdateResponse{}, err
	}

	emailChanged, err := s.applyEmail(ctx, u, req.Email)
	if err != nil {
		return UpdateResponse{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return UpdateResponse{}, dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		u.Name = *req.Name
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}

	if err := applyKindFields(u, req); err != nil {
		return UpdateResponse{}, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return UpdateResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "update profile")
	}

	resp := UpdateResponse{Profile: toProfileResponse(u)}
	if emailChanged {
		token, err := s.tokens.GenerateFromUserID(u.ID)
		if err != nil {
			return UpdateResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "reissue token")
		}
		resp.Token = token
		s.logger.InfoContext(ctx, "email changed, token reissued", "user_id", u.ID)
	}
	return resp, nil
}

// Delete removes the caller's account.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

func (s *Service) applyEmail(ctx context.Context, u *user.User, email *string) (bool, error) {
	if email == nil || strings.EqualFold(*email, u.Email) {
		return false, nil
	}
	if strings.TrimSpace(*email) == "" || !strings.Contains(*email, "@") {
		return false, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	exists, err := s.users.ExistsByEmail(ctx, *email)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check email uniqueness")
	}
	if exists {
		return false, dErrors.New(dErrors.CodeConflict, "email already registered")
	}
	u.Email = *email
	return true, nil
}

func applyKindFields(u *user.User, req UpdateRequest) error {
	if req.MedicalHistory != nil {
		if !u.IsPatient() {
			return dErrors.New(dErrors.CodeValidation, "medicalHistory applies to patients only")
		}
		u.Patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Speciality != nil || req.WorkAddress != nil {
		if !u.IsCareGiver() {
			return dErrors.New(dErrors.CodeValidation, "speciality and workAddress apply to caregivers only")
		}
		if req.Speciality != nil {
			if strings.TrimSpace(*req.Speciality) == "" {
				return dErrors.New(dErrors.CodeValidation, "speciality cannot be empty")
			}
			u.CareGiver.Speciality = *req.Speciality
		}
		if req.WorkAddress != nil {
			u.CareGiver.WorkAddress = *req.WorkAddress
		}
	}
	return nil
}
