package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"medibook/internal/db"
)

type UserRepository interface {
	Create(user *db.User) error
	GetByEmail(email string) (*db.User, error)
	GetByID(id string) (*db.User, error)
	ListDoctors() ([]db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(user *db.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, role, specialization, clinic_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.Specialization,
		user.ClinicName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	return r.getOne(`WHERE email = $1`, email)
}

func (r *userRepository) GetByID(id string) (*db.User, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *userRepository) getOne(where string, arg interface{}) (*db.User, error) {
	var u db.User
	query := `
		SELECT id, name, email, password_hash, phone, role, specialization, clinic_name, created_at, updated_at
		FROM users ` + where
	err := r.db.QueryRow(query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role,
		&u.Specialization, &u.ClinicName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ListDoctors() ([]db.User, error) {
	query := `
		SELECT id, name, email, phone, role, specialization, clinic_name, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY name`
	rows, err := r.db.Query(query, db.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("error querying doctors: %w", err)
	}
	defer rows.Close()

	var doctors []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role,
			&u.Specialization, &u.ClinicName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning doctor row: %w", err)
		}
		doctors = append(doctors, u)
	}
	return doctors, rows.Err()
}
