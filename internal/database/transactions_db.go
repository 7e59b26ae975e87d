package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

const transactionColumns = `id, circle_id, owner_user_id, bank_id, budget_id, goal_id, title, description, type, categories, amount, transaction_date, transaction_time, voided`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := row.Scan(
		&transaction.ID,
		&transaction.CircleID,
		&transaction.OwnerUserID,
		&transaction.BankID,
		&transaction.BudgetID,
		&transaction.GoalID,
		&transaction.Title,
		&transaction.Description,
		&transaction.Type,
		&transaction.Categories,
		&transaction.Amount,
		&transaction.Date,
		&transaction.Time,
		&transaction.Voided,
	)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func GetTransactionByID(pool *pgxpool.Pool, transactionID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	transaction, err := scanTransaction(pool.QueryRow(context.Background(), query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена", transactionID)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}

	return transaction, nil
}

// GetTransactionsByCircle возвращает транзакции круга; voided управляет
// выборкой активных либо аннулированных
func GetTransactionsByCircle(pool *pgxpool.Pool, circleID int, voided bool) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE circle_id = $1 AND voided = $2 ORDER BY transaction_date DESC, id DESC`

	rows, err := pool.Query(context.Background(), query, circleID, voided)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций круга: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	return transactions, nil
}

// GetTransactionsByUser возвращает транзакции, с которыми связан пользователь
// (владелец или совладелец)
func GetTransactionsByUser(pool *pgxpool.Pool, userID int, voided bool) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN user_transactions ut ON ut.transaction_id = t.id
		WHERE ut.user_id = $1 AND t.voided = $2
		ORDER BY t.transaction_date DESC, t.id DESC`

	rows, err := pool.Query(context.Background(), query, userID, voided)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций пользователя: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	return transactions, nil
}

// GetTransactionsByBudget возвращает транзакции, явно привязанные к бюджету
func GetTransactionsByBudget(pool *pgxpool.Pool, budgetID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE budget_id = $1 ORDER BY transaction_date DESC, id DESC`

	rows, err := pool.Query(context.Background(), query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций бюджета: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	return transactions, nil
}
