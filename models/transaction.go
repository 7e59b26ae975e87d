package models

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	CircleID    int             `json:"circle_id" db:"circle_id"`
	OwnerUserID int             `json:"owner_user_id" db:"owner_user_id"`
	BankID      int             `json:"bank_id" db:"bank_id"`
	BudgetID    *int            `json:"budget_id" db:"budget_id"`
	GoalID      *int            `json:"goal_id" db:"goal_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Type        TransactionType `json:"type" db:"type"`
	Categories  []string        `json:"categories" db:"categories"`
	Amount      float64         `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"transaction_date"`
	Time        string          `json:"time" db:"transaction_time"` // ЧЧ:ММ
	Voided      bool            `json:"voided" db:"voided"`
}
