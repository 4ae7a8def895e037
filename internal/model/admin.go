package model

import "time"

// Admin is an administrative user of the CMS. Passwords are stored as
// salted PBKDF2-SHA256 hashes. Regions holds the assigned region codes;
// it is empty and ignored for super admins, who have unrestricted access.
type Admin struct {
	ID                int64      `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	Email             string     `json:"email" db:"email"`
	FullName          string     `json:"full_name" db:"full_name"`
	PasswordHash      string     `json:"-" db:"password_hash"` // never expose
	IsSuperAdmin      bool       `json:"is_super_admin" db:"is_super_admin"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	Regions           []string   `json:"regions" db:"-"`
	ProfilePictureURL string     `json:"profile_picture_url" db:"profile_picture_url"`
	IsTest            bool       `json:"is_test" db:"is_test"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
