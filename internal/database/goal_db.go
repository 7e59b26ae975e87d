package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal" // Для точных денежных значений
	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// CreateGoal создает цель. Накопительная цель стартует с нуля, расходная —
// с полной суммы, которую транзакции затем тратят
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal, coOwnerIDs []int) error {
	if goal.Type == models.GoalExpense {
		goal.CurrentAmount = goal.TargetAmount
	} else {
		goal.CurrentAmount = 0
	}

	query := `
		INSERT INTO goals (circle_id, owner_user_id, title, target_amount, current_amount, type, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		goal.CircleID,
		goal.OwnerUserID,
		goal.Title,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Type,
		goal.StartDate,
		goal.EndDate).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании цели: %v", err)
	}

	if err := createUserGoal(pool, goal.OwnerUserID, goal.ID); err != nil {
		return err
	}
	for _, userID := range coOwnerIDs {
		if err := createUserGoal(pool, userID, goal.ID); err != nil {
			return err
		}
	}
	return nil
}

func createUserGoal(pool *pgxpool.Pool, userID, goalID int) error {
	query := `INSERT INTO user_goals (user_id, goal_id) VALUES ($1, $2)`
	_, err := pool.Exec(context.Background(), query, userID, goalID)
	if err != nil {
		return fmt.Errorf("ошибка связывания пользователя с целью: %v", err)
	}
	return nil
}

func GetGoalByID(pool *pgxpool.Pool, goalID int) (*models.Goal, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, target_amount, current_amount, type, start_date, end_date
		FROM goals
		WHERE id = $1`

	goal := &models.Goal{}
	err := pool.QueryRow(context.Background(), query, goalID).Scan(
		&goal.ID,
		&goal.CircleID,
		&goal.OwnerUserID,
		&goal.Title,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Type,
		&goal.StartDate,
		&goal.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("цель с ID %d не найдена", goalID)
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

func GetGoalsByCircle(pool *pgxpool.Pool, circleID int) ([]models.Goal, error) {
	query := `SELECT id, circle_id, owner_user_id, title, target_amount, current_amount, type, start_date, end_date FROM goals WHERE circle_id = $1 ORDER BY id`
	rows, err := pool.Query(context.Background(), query, circleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей круга: %v", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(&goal.ID, &goal.CircleID, &goal.OwnerUserID, &goal.Title, &goal.TargetAmount,
			&goal.CurrentAmount, &goal.Type, &goal.StartDate, &goal.EndDate); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

// UpdateGoal обновляет описание цели; накопленная сумма не трогается
func UpdateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET title = $1, target_amount = $2, type = $3, start_date = $4, end_date = $5
		WHERE id = $6`
	_, err := pool.Exec(context.Background(), query,
		goal.Title,
		goal.TargetAmount,
		goal.Type,
		goal.StartDate,
		goal.EndDate,
		goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %v", err)
	}
	return nil
}

// DeleteGoal удаляет цель вместе со связями; доступно только владельцу
func DeleteGoal(pool *pgxpool.Pool, userID, goalID int) error {
	goal, err := GetGoalByID(pool, goalID)
	if err != nil {
		return err
	}
	if goal.OwnerUserID != userID {
		return posting.ErrUnauthorized
	}

	if _, err := pool.Exec(context.Background(), `DELETE FROM user_goals WHERE goal_id = $1`, goalID); err != nil {
		return fmt.Errorf("ошибка удаления связей цели: %v", err)
	}

	result, err := pool.Exec(context.Background(), `DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %d не найдена", goalID)
	}
	return nil
}

// AddGoalProgress добавляет прогресс к цели, не давая превысить целевую сумму
func AddGoalProgress(pool *pgxpool.Pool, goalID int, progress decimal.Decimal) error {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1
		WHERE id = $2 AND current_amount + $1 <= target_amount
		RETURNING current_amount, target_amount`
	var current, target decimal.Decimal
	err := pool.QueryRow(context.Background(), query, progress, goalID).Scan(&current, &target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("прогресс превышает целевую сумму или цель с ID %d не найдена", goalID)
		}
		return fmt.Errorf("ошибка при добавлении прогресса к цели: %v", err)
	}
	return nil
}
