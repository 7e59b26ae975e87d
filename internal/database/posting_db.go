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

// txStores — реализация хранилищ движка проводок поверх одной транзакции БД.
// Остатки читаются с FOR UPDATE, чтобы параллельные проводки по одному счету
// или бюджету выстраивались в очередь на уровне строк.
type txStores struct {
	tx pgx.Tx
}

func (s txStores) GetBank(ctx context.Context, bankID int) (*models.Bank, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, currency, amount, remaining_amount, is_primary
		FROM banks
		WHERE id = $1
		FOR UPDATE`

	bank := &models.Bank{}
	err := s.tx.QueryRow(ctx, query, bankID).Scan(
		&bank.ID, &bank.CircleID, &bank.OwnerUserID, &bank.Title, &bank.Currency,
		&bank.Amount, &bank.RemainingAmount, &bank.IsPrimary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrBankNotFound
		}
		return nil, fmt.Errorf("ошибка при получении счета: %v", err)
	}
	return bank, nil
}

func (s txStores) UpdateBankBalance(ctx context.Context, bank *models.Bank) error {
	_, err := s.tx.Exec(ctx, `UPDATE banks SET remaining_amount = $1 WHERE id = $2`, bank.RemainingAmount, bank.ID)
	if err != nil {
		return fmt.Errorf("ошибка записи остатка счета: %v", err)
	}
	return nil
}

func (s txStores) GetBudget(ctx context.Context, budgetID int) (*models.Budget, error) {
	query := `
		SELECT id, circle_id, owner_user_id, bank_id, title, amount, remaining_amount, type, scope, categories, start_date, end_date
		FROM budgets
		WHERE id = $1
		FOR UPDATE`

	budget := &models.Budget{}
	err := s.tx.QueryRow(ctx, query, budgetID).Scan(
		&budget.ID, &budget.CircleID, &budget.OwnerUserID, &budget.BankID, &budget.Title,
		&budget.Amount, &budget.RemainingAmount, &budget.Type, &budget.Scope, &budget.Categories,
		&budget.StartDate, &budget.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}
	return budget, nil
}

func (s txStores) ListBudgetsByCircle(ctx context.Context, circleID int) ([]models.Budget, error) {
	query := `
		SELECT id, circle_id, owner_user_id, bank_id, title, amount, remaining_amount, type, scope, categories, start_date, end_date
		FROM budgets
		WHERE circle_id = $1
		ORDER BY id
		FOR UPDATE`

	rows, err := s.tx.Query(ctx, query, circleID)
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

func (s txStores) UpdateBudgetBalance(ctx context.Context, budget *models.Budget) error {
	_, err := s.tx.Exec(ctx, `UPDATE budgets SET remaining_amount = $1 WHERE id = $2`, budget.RemainingAmount, budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка записи остатка бюджета: %v", err)
	}
	return nil
}

func (s txStores) GetGoal(ctx context.Context, goalID int) (*models.Goal, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, target_amount, current_amount, type, start_date, end_date
		FROM goals
		WHERE id = $1
		FOR UPDATE`

	goal := &models.Goal{}
	err := s.tx.QueryRow(ctx, query, goalID).Scan(
		&goal.ID, &goal.CircleID, &goal.OwnerUserID, &goal.Title, &goal.TargetAmount,
		&goal.CurrentAmount, &goal.Type, &goal.StartDate, &goal.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrGoalNotFound
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

func (s txStores) UpdateGoalBalance(ctx context.Context, goal *models.Goal) error {
	_, err := s.tx.Exec(ctx, `UPDATE goals SET current_amount = $1 WHERE id = $2`, goal.CurrentAmount, goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка записи накоплений цели: %v", err)
	}
	return nil
}

func (s txStores) GetTransaction(ctx context.Context, transactionID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	transaction, err := scanTransaction(s.tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, posting.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}
	return transaction, nil
}

func (s txStores) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (circle_id, owner_user_id, bank_id, budget_id, goal_id, title, description, type, categories, amount, transaction_date, transaction_time, voided)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := s.tx.QueryRow(ctx, query,
		transaction.CircleID,
		transaction.OwnerUserID,
		transaction.BankID,
		transaction.BudgetID,
		transaction.GoalID,
		transaction.Title,
		transaction.Description,
		transaction.Type,
		transaction.Categories,
		transaction.Amount,
		transaction.Date,
		transaction.Time,
		transaction.Voided).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании транзакции: %v", err)
	}
	return nil
}

func (s txStores) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET bank_id = $1, budget_id = $2, goal_id = $3, title = $4, description = $5, type = $6, categories = $7, amount = $8, transaction_date = $9, transaction_time = $10, voided = $11
		WHERE id = $12`

	_, err := s.tx.Exec(ctx, query,
		transaction.BankID,
		transaction.BudgetID,
		transaction.GoalID,
		transaction.Title,
		transaction.Description,
		transaction.Type,
		transaction.Categories,
		transaction.Amount,
		transaction.Date,
		transaction.Time,
		transaction.Voided,
		transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %v", err)
	}
	return nil
}

func (s txStores) CreateUserTransaction(ctx context.Context, userID, transactionID int) error {
	_, err := s.tx.Exec(ctx, `INSERT INTO user_transactions (user_id, transaction_id) VALUES ($1, $2)`, userID, transactionID)
	if err != nil {
		return fmt.Errorf("ошибка связывания пользователя с транзакцией: %v", err)
	}
	return nil
}

// inTx выполняет операцию движка в одной транзакции БД: любой отказ
// откатывает и остатки, и строку транзакции разом
func inTx(ctx context.Context, pool *pgxpool.Pool, op func(*posting.Poster) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции БД: %v", err)
	}
	defer tx.Rollback(ctx)

	stores := txStores{tx: tx}
	if err := op(posting.NewPoster(stores, stores, stores, stores)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции БД: %v", err)
	}
	return nil
}

// PostTransaction проводит транзакцию от имени пользователя в его активном
// круге
func PostTransaction(ctx context.Context, pool *pgxpool.Pool, userID int, transaction *models.Transaction, coOwnerIDs []int) error {
	user, err := GetUserByID(pool, userID)
	if err != nil {
		return err
	}
	if user.ActiveCircleID == nil {
		return fmt.Errorf("у пользователя %d не выбран активный круг", userID)
	}

	transaction.OwnerUserID = userID
	transaction.CircleID = *user.ActiveCircleID

	return inTx(ctx, pool, func(poster *posting.Poster) error {
		return poster.PostTransaction(ctx, transaction, coOwnerIDs)
	})
}

// UpdatePostedTransaction правит проведенную транзакцию со сторнированием
func UpdatePostedTransaction(ctx context.Context, pool *pgxpool.Pool, transactionID int, changes *models.Transaction) (*models.Transaction, error) {
	var updated *models.Transaction
	err := inTx(ctx, pool, func(poster *posting.Poster) error {
		var err error
		updated, err = poster.UpdateTransaction(ctx, transactionID, changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// VoidPostedTransaction аннулирует транзакцию от имени пользователя
func VoidPostedTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int) error {
	return inTx(ctx, pool, func(poster *posting.Poster) error {
		return poster.VoidTransaction(ctx, userID, transactionID)
	})
}
