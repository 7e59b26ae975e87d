package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UpdateExpiredBudgets продлевает истекшие бюджеты: остаток сбрасывается до
// размера конверта, период сдвигается на свою длительность вперед
func UpdateExpiredBudgets(pool *pgxpool.Pool) error {
	query := `
		UPDATE budgets
		SET remaining_amount = amount,
			start_date = end_date,
			end_date = end_date + (end_date - start_date)
		WHERE end_date < CURRENT_DATE`

	result, err := pool.Exec(context.Background(), query)
	if err != nil {
		return fmt.Errorf("ошибка продления истекших бюджетов: %v", err)
	}
	if n := result.RowsAffected(); n > 0 {
		log.Printf("Продлено истекших бюджетов: %d", n)
	}
	return nil
}

// ArchiveVoidedTransactions переносит давно аннулированные транзакции в
// архивную таблицу
func ArchiveVoidedTransactions(pool *pgxpool.Pool) error {
	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer tx.Rollback(context.Background())

	insertQuery := `
		INSERT INTO transactions_history (transaction_id, circle_id, owner_user_id, bank_id, budget_id, goal_id, title, description, type, categories, amount, transaction_date, transaction_time)
		SELECT id, circle_id, owner_user_id, bank_id, budget_id, goal_id, title, description, type, categories, amount, transaction_date, transaction_time
		FROM transactions
		WHERE voided AND transaction_date < CURRENT_DATE - INTERVAL '90 days'`
	if _, err := tx.Exec(context.Background(), insertQuery); err != nil {
		return fmt.Errorf("ошибка копирования транзакций в архив: %v", err)
	}

	deleteQuery := `
		DELETE FROM user_transactions
		WHERE transaction_id IN (
			SELECT id FROM transactions WHERE voided AND transaction_date < CURRENT_DATE - INTERVAL '90 days')`
	if _, err := tx.Exec(context.Background(), deleteQuery); err != nil {
		return fmt.Errorf("ошибка удаления связей архивируемых транзакций: %v", err)
	}

	result, err := tx.Exec(context.Background(),
		`DELETE FROM transactions WHERE voided AND transaction_date < CURRENT_DATE - INTERVAL '90 days'`)
	if err != nil {
		return fmt.Errorf("ошибка удаления архивируемых транзакций: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		return fmt.Errorf("ошибка фиксации архива: %v", err)
	}

	if n := result.RowsAffected(); n > 0 {
		log.Printf("Перенесено транзакций в архив: %d", n)
	}
	return nil
}
