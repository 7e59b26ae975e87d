package models

type User struct {
	ID             int    `json:"id" db:"id"`
	Email          string `json:"email" db:"email"`
	Password       string `json:"password,omitempty" db:"password"`
	Name           string `json:"name" db:"name"`
	ActiveCircleID *int   `json:"active_circle_id" db:"active_circle_id"` // Круг, в котором пользователь сейчас работает
}
