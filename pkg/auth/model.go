package auth

import "time"

type Founder struct {
	ID           int64     `json:"-"`
	FounderID    string    `json:"founder_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Designation  *string   `json:"designation,omitempty"`
	Mobile       *string   `json:"mobile,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Equity       float64   `json:"equity"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Admin struct {
	ID           int64     `json:"-"`
	AdminID      string    `json:"admin_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginResult carries exactly one of FounderID and AdminID.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	FounderID    string `json:"founder_id,omitempty"`
	AdminID      string `json:"admin_id,omitempty"`
}
