package models

import "time"

type BudgetType string

const (
	BudgetSavings BudgetType = "savings"
	BudgetExpense BudgetType = "expense"
)

type BudgetScope string

const (
	// ScopeExclusive — бюджет учитывает только транзакции, явно привязанные по budget_id
	ScopeExclusive BudgetScope = "exclusive"
	// ScopeInclusive — бюджет учитывает любые транзакции круга с пересекающейся категорией
	ScopeInclusive BudgetScope = "inclusive"
)

type Budget struct {
	ID              int         `json:"id" db:"id"`
	CircleID        int         `json:"circle_id" db:"circle_id"`
	OwnerUserID     int         `json:"owner_user_id" db:"owner_user_id"`
	BankID          *int        `json:"bank_id" db:"bank_id"`
	Title           string      `json:"title" db:"title"`
	Amount          float64     `json:"amount" db:"amount"`
	RemainingAmount float64     `json:"remaining_amount" db:"remaining_amount"` // Остаток конверта
	Type            BudgetType  `json:"type" db:"type"`
	Scope           BudgetScope `json:"scope" db:"scope"`
	Categories      []string    `json:"categories" db:"categories"`
	StartDate       time.Time   `json:"start_date" db:"start_date"`
	EndDate         time.Time   `json:"end_date" db:"end_date"`
}
