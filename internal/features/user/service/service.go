package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"user-admin-backend/internal/common/logger"
	"user-admin-backend/internal/common/validation"
	"user-admin-backend/internal/features/user/models"
	"user-admin-backend/internal/features/user/repository"
)

// CreateUserParams carries the fields of a new user record.
type CreateUserParams struct {
	Login     string
	Password  string
	Name      string
	Gender    int
	Birthday  time.Time
	CreatedBy string
	IsAdmin   bool
}

// UserService holds the mutation and query rules for the users table. It is
// the only writer of the business invariants: login uniqueness, the token
// charset rule and audit stamping.
type UserService interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	ChangeUserName(ctx context.Context, targetLogin, newName, modifiedBy string) error
	ChangeUserGender(ctx context.Context, targetLogin string, newGender int, modifiedBy string) error
	ChangeUserBirthday(ctx context.Context, targetLogin string, newBirthday time.Time, modifiedBy string) error
	ChangeUserPassword(ctx context.Context, targetLogin, newPassword, modifiedBy string) error
	ChangeUserLogin(ctx context.Context, targetLogin, newLogin, modifiedBy string) error

	FindAuthorized(ctx context.Context, login, password string, requireAdmin bool) (*models.User, error)
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindOlderThan(ctx context.Context, years int) ([]*models.User, error)

	SoftDeleteUser(ctx context.Context, targetLogin, revokedBy string) error
	HardDeleteUser(ctx context.Context, targetLogin string) error
	RestoreUser(ctx context.Context, targetLogin string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{
		repo: repo,
	}
}

// CreateUser checks login uniqueness first, the charset rule second, and
// only then inserts. A zero birthday is stored as the absent sentinel.
func (s *userService) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	if err := s.checkLoginUnique(ctx, params.Login); err != nil {
		return nil, err
	}

	switch {
	case !validation.IsValidLogin(params.Login):
		return nil, &ValidationError{Field: "login"}
	case !validation.IsValidPassword(params.Password):
		return nil, &ValidationError{Field: "password"}
	case !validation.IsValidName(params.Name):
		return nil, &ValidationError{Field: "name"}
	}

	birthday := params.Birthday
	if birthday.IsZero() {
		birthday = models.FarFuture
	}

	user := &models.User{
		ID:         uuid.New(),
		Login:      params.Login,
		Password:   params.Password,
		Name:       params.Name,
		Gender:     params.Gender,
		Birthday:   birthday,
		IsAdmin:    params.IsAdmin,
		CreatedOn:  time.Now().UTC(),
		CreatedBy:  params.CreatedBy,
		ModifiedOn: models.FarFuture,
		ModifiedBy: "",
		RevokedOn:  models.FarFuture,
		RevokedBy:  "",
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateLogin) {
			// Lost the check-then-insert race; the unique index decides.
			return nil, ErrDuplicateLogin
		}
		logger.Error().Err(err).Str("login", params.Login).Msg("Failed to insert user")
		return nil, err
	}

	return user, nil
}

func (s *userService) ChangeUserName(ctx context.Context, targetLogin, newName, modifiedBy string) error {
	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	if !validation.IsValidName(newName) {
		return &ValidationError{Field: "name"}
	}

	user.Name = newName
	s.stamp(user, modifiedBy)

	return s.update(ctx, user)
}

// ChangeUserGender stores the gender value as supplied; the original record
// keeps whatever integer the caller sends.
func (s *userService) ChangeUserGender(ctx context.Context, targetLogin string, newGender int, modifiedBy string) error {
	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.Gender = newGender
	s.stamp(user, modifiedBy)

	return s.update(ctx, user)
}

func (s *userService) ChangeUserBirthday(ctx context.Context, targetLogin string, newBirthday time.Time, modifiedBy string) error {
	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.Birthday = newBirthday
	s.stamp(user, modifiedBy)

	return s.update(ctx, user)
}

// ChangeUserPassword validates the new password before looking the target
// up, so a bad password surfaces even for an absent login.
func (s *userService) ChangeUserPassword(ctx context.Context, targetLogin, newPassword, modifiedBy string) error {
	if !validation.IsValidPassword(newPassword) {
		return &ValidationError{Field: "password"}
	}

	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.Password = newPassword
	s.stamp(user, modifiedBy)

	return s.update(ctx, user)
}

// ChangeUserLogin checks uniqueness of the new login, then its charset, then
// resolves the target. The order decides which error wins when several
// conditions fail at once.
func (s *userService) ChangeUserLogin(ctx context.Context, targetLogin, newLogin, modifiedBy string) error {
	if err := s.checkLoginUnique(ctx, newLogin); err != nil {
		return err
	}

	if !validation.IsValidLogin(newLogin) {
		return &ValidationError{Field: "login"}
	}

	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.Login = newLogin
	s.stamp(user, modifiedBy)

	return s.update(ctx, user)
}

// FindAuthorized resolves the acting user by exact login and password match,
// optionally requiring the admin flag. Revocation is not checked here;
// callers that care check it on the returned record.
func (s *userService) FindAuthorized(ctx context.Context, login, password string, requireAdmin bool) (*models.User, error) {
	user, err := s.repo.GetByCredentials(ctx, login, password, requireAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		logger.Error().Err(err).Str("login", login).Msg("Failed to check credentials")
		return nil, err
	}

	return user, nil
}

func (s *userService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListActive(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list active users")
		return nil, err
	}

	return users, nil
}

func (s *userService) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getByLogin(ctx, login)
}

// FindOlderThan returns the users whose birthday lies strictly beyond the
// completed-years cutoff at the current UTC date. Records without a birthday
// hold the far-future sentinel and never qualify.
func (s *userService) FindOlderThan(ctx context.Context, years int) ([]*models.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}

	now := time.Now().UTC()

	var filtered []*models.User
	for _, user := range users {
		if olderThan(user.Birthday, years, now) {
			filtered = append(filtered, user)
		}
	}

	return filtered, nil
}

func (s *userService) SoftDeleteUser(ctx context.Context, targetLogin, revokedBy string) error {
	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.RevokedOn = time.Now().UTC()
	user.RevokedBy = revokedBy

	return s.update(ctx, user)
}

func (s *userService) HardDeleteUser(ctx context.Context, targetLogin string) error {
	if err := s.repo.Delete(ctx, targetLogin); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		logger.Error().Err(err).Str("login", targetLogin).Msg("Failed to delete user")
		return err
	}

	return nil
}

func (s *userService) RestoreUser(ctx context.Context, targetLogin string) error {
	user, err := s.getByLogin(ctx, targetLogin)
	if err != nil {
		return err
	}

	user.RevokedOn = models.FarFuture
	user.RevokedBy = ""

	return s.update(ctx, user)
}

// olderThan applies the cutoff arithmetic: cutoffYear = currentYear - years
// - 1, then a strict month and day comparison within the cutoff year.
func olderThan(birthday time.Time, years int, now time.Time) bool {
	cutoffYear := now.Year() - years - 1

	switch {
	case birthday.Year() < cutoffYear:
		return true
	case birthday.Year() > cutoffYear:
		return false
	case birthday.Month() < now.Month():
		return true
	case birthday.Month() == now.Month() && birthday.Day() < now.Day():
		return true
	default:
		return false
	}
}

func (s *userService) checkLoginUnique(ctx context.Context, login string) error {
	exists, err := s.repo.ExistsByLogin(ctx, login)
	if err != nil {
		logger.Error().Err(err).Str("login", login).Msg("Failed to check login uniqueness")
		return err
	}
	if exists {
		return ErrDuplicateLogin
	}

	return nil
}

func (s *userService) getByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("login", login).Msg("Failed to get user")
		return nil, err
	}

	return user, nil
}

func (s *userService) update(ctx context.Context, user *models.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateLogin):
			return ErrDuplicateLogin
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrNotFound
		}
		logger.Error().Err(err).Str("login", user.Login).Msg("Failed to update user")
		return err
	}

	return nil
}

func (s *userService) stamp(user *models.User, modifiedBy string) {
	user.ModifiedOn = time.Now().UTC()
	user.ModifiedBy = modifiedBy
}
