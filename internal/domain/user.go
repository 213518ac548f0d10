package domain

type User struct {
	ID            string `db:"id"`
	Email         string `db:"email"`
	Name          string `db:"name"`
	Hash          string `db:"password_hash"`
	Role          string `db:"role"`
	Provider      string `db:"provider"` // email | google | facebook
	ProviderID    string `db:"provider_id"`
	EmailVerified bool   `db:"email_verified"`

	// Profile
	FullName   string `db:"full_name"`
	Phone      string `db:"phone"`
	Street     string `db:"street"`
	City       string `db:"city"`
	Province   string `db:"province"`
	PostalCode string `db:"postal_code"`
	Gender     string `db:"gender"`
	Picture    string `db:"picture"`
}
