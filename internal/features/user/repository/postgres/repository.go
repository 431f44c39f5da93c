package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"user-admin-backend/internal/features/user/models"
	"user-admin-backend/internal/features/user/repository"
)

const userColumns = `id, login, password, name, gender, birthday, is_admin,
		created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, login))
}

func (r *postgresRepository) GetByCredentials(ctx context.Context, login, password string, requireAdmin bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 AND password = $2`
	if requireAdmin {
		query += ` AND is_admin = TRUE`
	}

	return r.scanUser(r.db.QueryRowContext(ctx, query, login, password))
}

func (r *postgresRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check login: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE revoked_by = '' ORDER BY created_on ASC`

	return r.queryUsers(ctx, query)
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`

	return r.queryUsers(ctx, query)
}

func (r *postgresRepository) Insert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Login, user.Password, user.Name, user.Gender,
		user.Birthday, user.IsAdmin, user.CreatedOn, user.CreatedBy,
		user.ModifiedOn, user.ModifiedBy, user.RevokedOn, user.RevokedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateLogin
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET login = $2, password = $3, name = $4, gender = $5, birthday = $6,
			is_admin = $7, modified_on = $8, modified_by = $9,
			revoked_on = $10, revoked_by = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Login, user.Password, user.Name, user.Gender,
		user.Birthday, user.IsAdmin, user.ModifiedOn, user.ModifiedBy,
		user.RevokedOn, user.RevokedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateLogin
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, login string) error {
	query := `DELETE FROM users WHERE login = $1`

	result, err := r.db.ExecContext(ctx, query, login)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Login, &user.Password, &user.Name, &user.Gender,
			&user.Birthday, &user.IsAdmin, &user.CreatedOn, &user.CreatedBy,
			&user.ModifiedOn, &user.ModifiedBy, &user.RevokedOn, &user.RevokedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

func (r *postgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Login, &user.Password, &user.Name, &user.Gender,
		&user.Birthday, &user.IsAdmin, &user.CreatedOn, &user.CreatedBy,
		&user.ModifiedOn, &user.ModifiedBy, &user.RevokedOn, &user.RevokedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// isUniqueViolation reports whether err is the unique index on login firing.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
