package domain

// Role is the closed set of session roles the hotel auth service issues.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "resepsionis"
	RoleCustomer     Role = "pelanggan"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleAdmin, RoleReceptionist, RoleCustomer}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleReceptionist, RoleCustomer:
		return Role(s), true
	default:
		return "", false
	}
}

// Dashboard is the landing page for the role.
func (r Role) Dashboard() string {
	return "/" + string(r) + "/dashboard"
}
