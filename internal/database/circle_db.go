package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// CreateCircle создает круг и сразу делает создателя его участником и
// активным кругом
func CreateCircle(pool *pgxpool.Pool, nickname string, ownerUserID int) (int, error) {
	var circleID int
	query := `
		INSERT INTO circles (nickname, owner_user_id)
		VALUES ($1, $2)
		RETURNING id`
	err := pool.QueryRow(context.Background(), query, nickname, ownerUserID).Scan(&circleID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания круга: %v", err)
	}

	memberQuery := `
		INSERT INTO circle_memberships (user_id, circle_id, role)
		VALUES ($1, $2, 'adult')`
	_, err = pool.Exec(context.Background(), memberQuery, ownerUserID, circleID)
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления создателя в круг: %v", err)
	}

	if err := SetActiveCircle(pool, ownerUserID, circleID); err != nil {
		return 0, err
	}

	return circleID, nil
}

// JoinCircle добавляет пользователя в круг по его нику
func JoinCircle(pool *pgxpool.Pool, userID int, nickname string, role string) error {
	var circleID int
	query := `SELECT id FROM circles WHERE nickname = $1`
	err := pool.QueryRow(context.Background(), query, nickname).Scan(&circleID)
	if err != nil {
		return fmt.Errorf("круг с ником '%s' не найден: %v", nickname, err)
	}

	memberQuery := `
		INSERT INTO circle_memberships (user_id, circle_id, role)
		VALUES ($1, $2, $3)`
	_, err = pool.Exec(context.Background(), memberQuery, userID, circleID, role)
	if err != nil {
		return fmt.Errorf("ошибка добавления пользователя в круг: %v", err)
	}

	return nil
}

// GetCircleMembers получает всех участников круга
func GetCircleMembers(pool *pgxpool.Pool, circleID int) ([]models.CircleMember, error) {
	query := `
		SELECT u.id, u.name, m.role
		FROM users u
		JOIN circle_memberships m ON u.id = m.user_id
		WHERE m.circle_id = $1`

	rows, err := pool.Query(context.Background(), query, circleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников круга: %v", err)
	}
	defer rows.Close()

	var members []models.CircleMember
	for rows.Next() {
		var member models.CircleMember
		if err := rows.Scan(&member.ID, &member.Name, &member.Role); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании участника круга: %v", err)
		}
		members = append(members, member)
	}

	return members, nil
}

func GetCircleByID(pool *pgxpool.Pool, circleID int) (*models.Circle, error) {
	circle := &models.Circle{}
	query := `SELECT id, nickname, owner_user_id FROM circles WHERE id = $1`
	err := pool.QueryRow(context.Background(), query, circleID).Scan(&circle.ID, &circle.Nickname, &circle.OwnerUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("круг с ID %d не найден", circleID)
		}
		return nil, fmt.Errorf("ошибка при получении круга: %v", err)
	}
	return circle, nil
}

// SetActiveCircle переключает активный круг пользователя
func SetActiveCircle(pool *pgxpool.Pool, userID, circleID int) error {
	result, err := pool.Exec(context.Background(),
		`UPDATE users SET active_circle_id = $1 WHERE id = $2`, circleID, userID)
	if err != nil {
		return fmt.Errorf("ошибка переключения активного круга: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь с ID %d не найден", userID)
	}
	return nil
}

// DeleteCircle удаляет круг вместе с участниками; доступно только владельцу
func DeleteCircle(pool *pgxpool.Pool, userID, circleID int) error {
	circle, err := GetCircleByID(pool, circleID)
	if err != nil {
		return err
	}
	if circle.OwnerUserID != userID {
		return posting.ErrUnauthorized
	}

	if _, err := pool.Exec(context.Background(), `DELETE FROM circle_memberships WHERE circle_id = $1`, circleID); err != nil {
		return fmt.Errorf("ошибка удаления участников круга: %v", err)
	}

	result, err := pool.Exec(context.Background(), `DELETE FROM circles WHERE id = $1`, circleID)
	if err != nil {
		return fmt.Errorf("ошибка удаления круга: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("круг с ID %d не найден", circleID)
	}
	return nil
}
