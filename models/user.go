package models

import "time"

type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	PhoneNo      string    `json:"phoneNo,omitempty" bson:"phone_no,omitempty"`
	Role         []string  `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin    time.Time `json:"last_login" bson:"last_login"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Role {
		if r == "admin" {
			return true
		}
	}
	return false
}

// UserSummary is the shape returned by auth and profile endpoints.
type UserSummary struct {
	UserID  string `json:"userid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phoneNo,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		UserID:  u.UserID,
		Name:    u.Name,
		Email:   u.Email,
		PhoneNo: u.PhoneNo,
		IsAdmin: u.IsAdmin(),
	}
}
