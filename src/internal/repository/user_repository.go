package repository

import (
	"context"

	"ride-service/src/internal/entity"
	"ride-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

const userColumns = `id, full_name, email, phone, password, role, created_at`

// Insert stores a new profile; the id is assigned here.
func (r *UserRepository) Insert(ctx context.Context, user *entity.User) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	user.UserID = uuid.NewString()
	query := `
		INSERT INTO users (id, full_name, email, phone, password, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())`

	_, err = db.ExecContext(ctx, query,
		user.UserID,
		user.FullName,
		user.Email,
		user.Phone,
		user.Password,
		user.Role,
	)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	if err := db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	if err := db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}
