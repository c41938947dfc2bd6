package repository

import (
	"errors"
	"time"

	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// UserRepository is the user data-access interface. Lookup methods
// return (nil, nil) when no row matches.
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmailOrUsername(identifier string) (*models.User, error)
	GetByRefreshToken(token string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	List(filter UserListFilter) ([]models.User, int64, error)
	CountByRole() (map[string]int64, error)

	SetRefreshToken(userID, token string, expire time.Time) error
	RotateRefreshToken(userID, oldToken, newToken string, expire time.Time) (int64, error)
	ClearRefreshToken(userID string) error
	RegisterFailedLogin(userID string, maxAttempts int, lockFor time.Duration) error
	ResetLoginAttempts(userID string, loginAt time.Time) error
	SetVerificationToken(userID, token string, expire time.Time) error
	MarkEmailVerified(userID string) error
	SetResetToken(userID, token string, expire time.Time) error
	UpdatePassword(userID, passwordHash string) error
}

// GormUserRepository is the GORM implementation.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the user repository.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) getOne(query *gorm.DB) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (r *GormUserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(r.db.Where("id = ?", id))
}

// GetByEmail fetches a user by email.
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(r.db.Where("email = ?", email))
}

// GetByUsername fetches a user by username.
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(r.db.Where("username = ?", username))
}

// GetByEmailOrUsername fetches a user by either login identifier.
func (r *GormUserRepository) GetByEmailOrUsername(identifier string) (*models.User, error) {
	return r.getOne(r.db.Where("email = ? OR username = ?", identifier, identifier))
}

// GetByRefreshToken fetches the user holding an unexpired refresh token.
func (r *GormUserRepository) GetByRefreshToken(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.getOne(r.db.Where("refresh_token = ? AND refresh_token_expire > ?", token, time.Now()))
}

// GetByVerificationToken fetches the user holding an unexpired email
// verification token.
func (r *GormUserRepository) GetByVerificationToken(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.getOne(r.db.Where("email_verification_token = ? AND email_verification_expire > ?", token, time.Now()))
}

// GetByResetToken fetches the user holding an unexpired password reset token.
func (r *GormUserRepository) GetByResetToken(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.getOne(r.db.Where("password_reset_token = ? AND password_reset_expire > ?", token, time.Now()))
}

// Create inserts a user.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update saves a user.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft-deletes a user.
func (r *GormUserRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}

// List returns a page of users for the admin panel.
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByRole returns account counts grouped by role.
func (r *GormUserRepository) CountByRole() (map[string]int64, error) {
	type row struct {
		Role  string
		Count int64
	}
	var rows []row
	if err := r.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, entry := range rows {
		counts[entry.Role] = entry.Count
	}
	return counts, nil
}

// SetRefreshToken stores a fresh refresh token, replacing any prior one.
func (r *GormUserRepository) SetRefreshToken(userID, token string, expire time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"refresh_token":        token,
		"refresh_token_expire": expire,
	}).Error
}

// RotateRefreshToken swaps the stored refresh token only if oldToken still
// matches, so a replayed token cannot rotate twice. Returns rows affected.
func (r *GormUserRepository) RotateRefreshToken(userID, oldToken, newToken string, expire time.Time) (int64, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, oldToken).
		Updates(map[string]interface{}{
			"refresh_token":        newToken,
			"refresh_token_expire": expire,
		})
	return result.RowsAffected, result.Error
}

// ClearRefreshToken drops the stored refresh token. Safe to call when no
// token is stored.
func (r *GormUserRepository) ClearRefreshToken(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"refresh_token":        "",
		"refresh_token_expire": nil,
	}).Error
}

// RegisterFailedLogin bumps the failure counter atomically and starts a
// lockout window once the counter reaches maxAttempts.
func (r *GormUserRepository) RegisterFailedLogin(userID string, maxAttempts int, lockFor time.Duration) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("login_attempts", gorm.Expr("login_attempts + 1")).Error
	if err != nil {
		return err
	}
	return r.db.Model(&models.User{}).
		Where("id = ? AND login_attempts >= ? AND (lock_until IS NULL OR lock_until < ?)", userID, maxAttempts, time.Now()).
		Update("lock_until", time.Now().Add(lockFor)).Error
}

// ResetLoginAttempts clears the failure counter after a successful login.
func (r *GormUserRepository) ResetLoginAttempts(userID string, loginAt time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login_at":  loginAt,
	}).Error
}

// SetVerificationToken stores a new email verification token.
func (r *GormUserRepository) SetVerificationToken(userID, token string, expire time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"email_verification_token":  token,
		"email_verification_expire": expire,
	}).Error
}

// MarkEmailVerified flips the verified flag and burns the token.
func (r *GormUserRepository) MarkEmailVerified(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_email_verified":         true,
		"email_verification_token":  "",
		"email_verification_expire": nil,
	}).Error
}

// SetResetToken stores a new password reset token.
func (r *GormUserRepository) SetResetToken(userID, token string, expire time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_reset_token":  token,
		"password_reset_expire": expire,
	}).Error
}

// UpdatePassword replaces the password hash, burns any reset token and
// revokes the active refresh token so existing sessions must log in again.
func (r *GormUserRepository) UpdatePassword(userID, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":         passwordHash,
		"password_reset_token":  "",
		"password_reset_expire": nil,
		"refresh_token":         "",
		"refresh_token_expire":  nil,
		"login_attempts":        0,
		"lock_until":            nil,
	}).Error
}
