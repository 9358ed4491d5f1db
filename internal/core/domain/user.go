package domain

// User roles. Customers register through the public API; admin accounts
// are provisioned directly in the database.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID       uint64
	Email    string
	Password string
	Role     string
}
