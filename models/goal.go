package models

import "time"

type GoalType string

const (
	GoalSavings GoalType = "savings"
	GoalExpense GoalType = "expense"
)

type Goal struct {
	ID            int       `json:"id" db:"id"`
	CircleID      int       `json:"circle_id" db:"circle_id"`
	OwnerUserID   int       `json:"owner_user_id" db:"owner_user_id"`
	Title         string    `json:"title" db:"title"`
	TargetAmount  float64   `json:"target_amount" db:"target_amount"`
	CurrentAmount float64   `json:"current_amount" db:"current_amount"`
	Type          GoalType  `json:"type" db:"type"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	EndDate       time.Time `json:"end_date" db:"end_date"`
}

func (g *Goal) RemainingToTarget() float64 {
	return g.TargetAmount - g.CurrentAmount
}

// Achieved — достигнута ли цель
func (g *Goal) Achieved() bool {
	return g.CurrentAmount >= g.TargetAmount
}
