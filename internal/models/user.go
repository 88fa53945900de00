package models

// User roles. Role is fixed at registration; admins are provisioned out of
// band and cannot be self-selected at signup.
const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// User represents a registered donor, volunteer or admin.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"index" json:"role"`
	Phone        string `json:"phone"`

	// Free-text location tags used by task matching.
	City    string `json:"city"`
	Pincode string `json:"pincode"`

	// Volunteer counters, mutated only on successful delivery.
	Points         int `json:"points"`
	TasksCompleted int `json:"tasks_completed"`

	// Donor counter, incremented on every donation created.
	DonationsCreated int `json:"donations_created"`

	CurrentLocation TrackedLocation `gorm:"embedded;embeddedPrefix:current_" json:"current_location"`
}

// ValidRegistrationRole reports whether a role may be chosen at signup.
func ValidRegistrationRole(role string) bool {
	return role == RoleDonor || role == RoleVolunteer
}
