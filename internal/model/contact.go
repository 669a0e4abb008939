package model

type Contact struct {
	ID       int    `db:"id" json:"id"`
	UserID   int    `db:"user_id" json:"user_id"`
	ListID   int    `db:"list_id" json:"list_id"`
	Name     string `db:"name" json:"name"`
	Phone    string `db:"phone" json:"phone"`
	Email    string `db:"email" json:"email"`
	Category string `db:"category" json:"category"`
	CEP      string `db:"cep" json:"cep"`
	Rating   *int   `db:"rating" json:"rating"`
}

type List struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}
