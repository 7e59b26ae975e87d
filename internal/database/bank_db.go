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

// CreateBank создает счет; остаток равен стартовой сумме
func CreateBank(pool *pgxpool.Pool, bank *models.Bank, coOwnerIDs []int) error {
	query := `
		INSERT INTO banks (circle_id, owner_user_id, title, currency, amount, remaining_amount, is_primary)
		VALUES ($1, $2, $3, $4, $5, $5, $6)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		bank.CircleID,
		bank.OwnerUserID,
		bank.Title,
		bank.Currency,
		bank.Amount,
		bank.IsPrimary).Scan(&bank.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании счета: %v", err)
	}
	bank.RemainingAmount = bank.Amount

	if err := createUserBank(pool, bank.OwnerUserID, bank.ID); err != nil {
		return err
	}
	for _, userID := range coOwnerIDs {
		if err := createUserBank(pool, userID, bank.ID); err != nil {
			return err
		}
	}
	return nil
}

func createUserBank(pool *pgxpool.Pool, userID, bankID int) error {
	query := `INSERT INTO user_banks (user_id, bank_id) VALUES ($1, $2)`
	_, err := pool.Exec(context.Background(), query, userID, bankID)
	if err != nil {
		return fmt.Errorf("ошибка связывания пользователя со счетом: %v", err)
	}
	return nil
}

func GetBankByID(pool *pgxpool.Pool, bankID int) (*models.Bank, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, currency, amount, remaining_amount, is_primary
		FROM banks
		WHERE id = $1`

	bank := &models.Bank{}
	err := pool.QueryRow(context.Background(), query, bankID).Scan(
		&bank.ID,
		&bank.CircleID,
		&bank.OwnerUserID,
		&bank.Title,
		&bank.Currency,
		&bank.Amount,
		&bank.RemainingAmount,
		&bank.IsPrimary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счет с ID %d не найден", bankID)
		}
		return nil, fmt.Errorf("ошибка при получении счета: %v", err)
	}

	return bank, nil
}

func GetBanksByCircle(pool *pgxpool.Pool, circleID int) ([]models.Bank, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, currency, amount, remaining_amount, is_primary
		FROM banks
		WHERE circle_id = $1
		ORDER BY id`

	rows, err := pool.Query(context.Background(), query, circleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении счетов круга: %v", err)
	}
	defer rows.Close()

	var banks []models.Bank
	for rows.Next() {
		var bank models.Bank
		if err := rows.Scan(&bank.ID, &bank.CircleID, &bank.OwnerUserID, &bank.Title, &bank.Currency,
			&bank.Amount, &bank.RemainingAmount, &bank.IsPrimary); err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}

	return banks, nil
}

// GetPrimaryBankByCircle возвращает основной счет круга (для отображения валюты)
func GetPrimaryBankByCircle(pool *pgxpool.Pool, circleID int) (*models.Bank, error) {
	query := `
		SELECT id, circle_id, owner_user_id, title, currency, amount, remaining_amount, is_primary
		FROM banks
		WHERE circle_id = $1 AND is_primary
		ORDER BY id
		LIMIT 1`

	bank := &models.Bank{}
	err := pool.QueryRow(context.Background(), query, circleID).Scan(
		&bank.ID,
		&bank.CircleID,
		&bank.OwnerUserID,
		&bank.Title,
		&bank.Currency,
		&bank.Amount,
		&bank.RemainingAmount,
		&bank.IsPrimary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("у круга %d нет основного счета", circleID)
		}
		return nil, fmt.Errorf("ошибка при получении основного счета: %v", err)
	}

	return bank, nil
}

// UpdateBank обновляет счет; смена стартовой суммы сбрасывает остаток
func UpdateBank(pool *pgxpool.Pool, bank *models.Bank) error {
	query := `
		UPDATE banks
		SET title = $1, currency = $2, amount = $3, remaining_amount = $3, is_primary = $4
		WHERE id = $5`

	_, err := pool.Exec(context.Background(), query,
		bank.Title,
		bank.Currency,
		bank.Amount,
		bank.IsPrimary,
		bank.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счета: %v", err)
	}
	bank.RemainingAmount = bank.Amount
	return nil
}

// DeleteBank удаляет счет вместе со связями; доступно только владельцу
func DeleteBank(pool *pgxpool.Pool, userID, bankID int) error {
	bank, err := GetBankByID(pool, bankID)
	if err != nil {
		return err
	}
	if bank.OwnerUserID != userID {
		return posting.ErrUnauthorized
	}

	// Сначала связи, затем сам счет — порядок фиксированный
	if _, err := pool.Exec(context.Background(), `DELETE FROM user_banks WHERE bank_id = $1`, bankID); err != nil {
		return fmt.Errorf("ошибка удаления связей счета: %v", err)
	}

	result, err := pool.Exec(context.Background(), `DELETE FROM banks WHERE id = $1`, bankID)
	if err != nil {
		return fmt.Errorf("ошибка удаления счета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("счет с ID %d не найден", bankID)
	}
	return nil
}
