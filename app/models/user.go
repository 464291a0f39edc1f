package models

import "gorm.io/gorm"

// Roles known to the system. Users are provisioned out-of-band (seeder or
// admin tooling); there is no self-registration endpoint.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleRider    = "rider"
)

// User is a local account record. Identity is established by an external
// token; the row here gates access (Approved) and carries the role.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, used only by the dev token issuer
	Role     string `gorm:"size:50;not null;default:customer" json:"role"`
	Approved bool   `gorm:"not null;default:false" json:"approved"`
}
