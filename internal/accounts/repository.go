package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, email, password, habilitado
		FROM usuarios
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (nombre, email, password, habilitado)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Name, user.Email, user.PasswordHash, user.Enabled).Scan(&user.ID)
	if isUniqueViolation(err) {
		return emailTaken(user.Email)
	}
	return err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE usuarios
		SET nombre = $2, email = $3, password = $4, habilitado = $5, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Enabled)
	if err != nil {
		if isUniqueViolation(err) {
			return emailTaken(user.Email)
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.UserNotFound(user.Email)
	}

	return nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE email = $1`, email)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func emailTaken(email string) error {
	return domain.Errorf(domain.ErrEmailAlreadyExists, "El email %s ya esta registrado.", email)
}
