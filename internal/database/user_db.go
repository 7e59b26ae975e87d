package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	query := `
		INSERT INTO users (email, password, name) VALUES ($1, $2, $3) RETURNING id`
	err = pool.QueryRow(context.Background(), query, user.Email, hashedPassword, user.Name).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}
	user.Password = ""
	return nil
}

func GetUserByID(pool *pgxpool.Pool, userID int) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, name, active_circle_id FROM users WHERE id = $1`
	err := pool.QueryRow(context.Background(), query, userID).Scan(&user.ID, &user.Email, &user.Name, &user.ActiveCircleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %d не найден", userID)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %v", err)
	}
	return user, nil
}
