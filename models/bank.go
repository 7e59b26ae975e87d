package models

type Bank struct {
	ID              int     `json:"id" db:"id"`
	CircleID        int     `json:"circle_id" db:"circle_id"`
	OwnerUserID     int     `json:"owner_user_id" db:"owner_user_id"`
	Title           string  `json:"title" db:"title"`
	Currency        string  `json:"currency" db:"currency"`
	Amount          float64 `json:"amount" db:"amount"`
	RemainingAmount float64 `json:"remaining_amount" db:"remaining_amount"` // Текущий остаток средств на счете
	IsPrimary       bool    `json:"is_primary" db:"is_primary"`
}
