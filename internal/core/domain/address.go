package domain

// Address is referenced by orders, not copied into them. Historical
// orders therefore reflect later edits; this mirrors the source system.
type Address struct {
	ID         uint64
	UserID     uint64
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}
