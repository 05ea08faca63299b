package domain

// Admin is an allow-listed back-office identity. There is no shopper account
// type; customers are anonymous and orders are looked up by id + phone.
type Admin struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}
