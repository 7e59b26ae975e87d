package models

type Circle struct {
	ID          int    `json:"id" db:"id"`
	Nickname    string `json:"nickname" db:"nickname"`
	OwnerUserID int    `json:"owner_user_id" db:"owner_user_id"`
}

type CircleMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
