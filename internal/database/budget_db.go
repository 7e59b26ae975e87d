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

// CreateBudget создает бюджет; остаток конверта равен его размеру
func CreateBudget(pool *pgxpool.Pool, budget *models.Budget, coOwnerIDs []int) error {
	query := `
		INSERT INTO budgets (circle_id, owner_user_id, bank_id, title, amount, remaining_amount, type, scope, categories, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		budget.CircleID,
		budget.OwnerUserID,
		budget.BankID,
		budget.Title,
		budget.Amount,
		budget.Type,
		budget.Scope,
		budget.Categories,
		budget.StartDate,
		budget.EndDate).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании бюджета: %v", err)
	}
	budget.RemainingAmount = budget.Amount

	if err := createUserBudget(pool, budget.OwnerUserID, budget.ID); err != nil {
		return err
	}
	for _, userID := range coOwnerIDs {
		if err := createUserBudget(pool, userID, budget.ID); err != nil {
			return err
		}
	}
	return nil
}

func createUserBudget(pool *pgxpool.Pool, userID, budgetID int) error {
	query := `INSERT INTO user_budgets (user_id, budget_id) VALUES ($1, $2)`
	_, err := pool.Exec(context.Background(), query, userID, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка связывания пользователя с бюджетом: %v", err)
	}
	return nil
}

func GetBudgetByID(pool *pgxpool.Pool, budgetID int) (*models.Budget, error) {
	query := `
		SELECT id, circle_id, owner_user_id, bank_id, title, amount, remaining_amount, type, scope, categories, start_date, end_date
		FROM budgets
		WHERE id = $1`

	budget := &models.Budget{}
	err := pool.QueryRow(context.Background(), query, budgetID).Scan(
		&budget.ID,
		&budget.CircleID,
		&budget.OwnerUserID,
		&budget.BankID,
		&budget.Title,
		&budget.Amount,
		&budget.RemainingAmount,
		&budget.Type,
		&budget.Scope,
		&budget.Categories,
		&budget.StartDate,
		&budget.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d не найден", budgetID)
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}

	return budget, nil
}

// GetBudgetsByCircle возвращает бюджеты круга по возрастанию id
func GetBudgetsByCircle(pool *pgxpool.Pool, circleID int) ([]models.Budget, error) {
	query := `
		SELECT id, circle_id, owner_user_id, bank_id, title, amount, remaining_amount, type, scope, categories, start_date, end_date
		FROM budgets
		WHERE circle_id = $1
		ORDER BY id`

	rows, err := pool.Query(context.Background(), query, circleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджетов круга: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(&budget.ID, &budget.CircleID, &budget.OwnerUserID, &budget.BankID, &budget.Title,
			&budget.Amount, &budget.RemainingAmount, &budget.Type, &budget.Scope, &budget.Categories,
			&budget.StartDate, &budget.EndDate); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}

	return budgets, nil
}

// UpdateBudget обновляет бюджет; смена размера конверта сбрасывает остаток
func UpdateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET bank_id = $1, title = $2, amount = $3, remaining_amount = $3, type = $4, scope = $5, categories = $6, start_date = $7, end_date = $8
		WHERE id = $9`

	_, err := pool.Exec(context.Background(), query,
		budget.BankID,
		budget.Title,
		budget.Amount,
		budget.Type,
		budget.Scope,
		budget.Categories,
		budget.StartDate,
		budget.EndDate,
		budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	budget.RemainingAmount = budget.Amount
	return nil
}

// DeleteBudget удаляет бюджет вместе со связями; доступно только владельцу
func DeleteBudget(pool *pgxpool.Pool, userID, budgetID int) error {
	budget, err := GetBudgetByID(pool, budgetID)
	if err != nil {
		return err
	}
	if budget.OwnerUserID != userID {
		return posting.ErrUnauthorized
	}

	if _, err := pool.Exec(context.Background(), `DELETE FROM user_budgets WHERE budget_id = $1`, budgetID); err != nil {
		return fmt.Errorf("ошибка удаления связей бюджета: %v", err)
	}

	result, err := pool.Exec(context.Background(), `DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return nil
}
