package service

import (
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/credential"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// UserService covers profile updates and admin user management.
type UserService struct {
	userRepo repository.UserRepository
	creds    credential.Credentials
	policy   config.PasswordPolicyConfig
	mailer   Mailer
}

// NewUserService creates the user service.
func NewUserService(userRepo repository.UserRepository, creds credential.Credentials, policy config.PasswordPolicyConfig, mailer Mailer) *UserService {
	return &UserService{userRepo: userRepo, creds: creds, policy: policy, mailer: mailer}
}

// ProfileUpdateInput is the payload for self-service profile edits.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Email     *string
}

// AdminUserUpdateInput is the payload for admin edits of an account.
type AdminUserUpdateInput struct {
	Role        *string
	Permissions *[]string
	IsActive    *bool
}

// AdminCreateInput is the payload for admin-created accounts.
type AdminCreateInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	Role        string
	Permissions []string
	PreVerified bool
}

// GetByID returns a user or ErrNotFound.
func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies self-service edits to the caller's own account.
func (s *UserService) UpdateProfile(userID string, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}
	emailChanged := false
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			}
			// a new address starts unverified again
			user.Email = email
			user.IsEmailVerified = false
			emailChanged = true
		}
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if emailChanged {
		if err := s.sendVerification(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) sendVerification(user *models.User) error {
	token, err := s.creds.GenerateToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetVerificationToken(user.ID, token, time.Now().Add(verificationTokenTTL)); err != nil {
		return err
	}
	if s.mailer == nil {
		return nil
	}
	go func() {
		if err := s.mailer.SendVerificationEmail(user.Email, user.FullName(), token); err != nil {
			logger.Warnw("verification_email_failed", "email", user.Email, "error", err)
		}
	}()
	return nil
}

// Create provisions an account from the admin panel, optionally
// pre-verified so the owner can sign in without the email round trip.
func (s *UserService) Create(input AdminCreateInput) (*models.User, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(s.policy, input.Password); err != nil {
		return nil, err
	}
	if err := checkIdentifiersFree(s.userRepo, email, username); err != nil {
		return nil, err
	}

	role := strings.ToLower(strings.TrimSpace(input.Role))
	switch role {
	case "":
		role = constants.RoleUser
	case constants.RoleAdmin, constants.RoleModerator, constants.RoleUser:
	default:
		return nil, ErrInvalidInput
	}

	hash, err := s.creds.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Phone:           strings.TrimSpace(input.Phone),
		Role:            role,
		Permissions:     models.StringArray(input.Permissions),
		IsActive:        true,
		IsEmailVerified: input.PreVerified,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if !input.PreVerified {
		if err := s.sendVerification(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Stats returns account counts grouped by role.
func (s *UserService) Stats() (map[string]int64, error) {
	return s.userRepo.CountByRole()
}

// List returns a page of users for the admin panel.
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// AdminUpdate applies role, permission and activation changes.
// Deactivation also revokes the refresh token so the session dies with
// the account.
func (s *UserService) AdminUpdate(userID string, input AdminUserUpdateInput) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		switch role {
		case constants.RoleAdmin, constants.RoleModerator, constants.RoleUser:
			user.Role = role
		default:
			return nil, ErrInvalidInput
		}
	}
	if input.Permissions != nil {
		user.Permissions = models.StringArray(*input.Permissions)
	}
	deactivated := false
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.IsActive = *input.IsActive
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if deactivated {
		if err := s.userRepo.ClearRefreshToken(user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Delete soft-deletes an account and revokes its session.
func (s *UserService) Delete(userID string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.ClearRefreshToken(user.ID); err != nil {
		return err
	}
	return s.userRepo.Delete(user.ID)
}
