package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// GetCircleTotalBalance возвращает суммарный остаток по всем счетам круга
func GetCircleTotalBalance(pool *pgxpool.Pool, circleID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(remaining_amount), 0) FROM banks WHERE circle_id = $1`
	err := pool.QueryRow(context.Background(), query, circleID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка подсчета общего остатка круга: %v", err)
	}
	return total, nil
}

// GetCircleMonthlySummary возвращает доходы и расходы круга за текущий месяц
func GetCircleMonthlySummary(pool *pgxpool.Pool, circleID int) (income, expense decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE circle_id = $1 AND NOT voided
			AND date_trunc('month', transaction_date) = date_trunc('month', CURRENT_DATE)`
	err = pool.QueryRow(context.Background(), query, circleID).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("ошибка подсчета месячной сводки круга: %v", err)
	}
	return income, expense, nil
}

// GetCircleCategoryExpenses возвращает расходы круга по категориям за
// текущий месяц
func GetCircleCategoryExpenses(pool *pgxpool.Pool, circleID int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT lower(category), COALESCE(SUM(amount), 0)
		FROM transactions, unnest(categories) AS category
		WHERE circle_id = $1 AND type = 'expense' AND NOT voided
			AND date_trunc('month', transaction_date) = date_trunc('month', CURRENT_DATE)
		GROUP BY lower(category)`

	rows, err := pool.Query(context.Background(), query, circleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета расходов по категориям: %v", err)
	}
	defer rows.Close()

	expenses := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, err
		}
		expenses[category] = amount
	}
	return expenses, nil
}
