package user

// Role values stored on a user profile. Only RoleAdmin may trigger catalog
// syncs or reach the admin panel; resellers see the catalog and their own
// orders.
const (
	RoleAdmin    = "admin"
	RoleReseller = "reseller"
)

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FullName  string `json:"fullName"`
	WhatsApp  string `json:"whatsapp"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
