package types

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record behind a session.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed
	Headline     *string   `json:"headline,omitempty"`
	Location     *string   `json:"location,omitempty"`
	PortfolioURL *string   `json:"portfolioUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the public shape returned by sign-up and sign-in.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewUser holds the columns written at sign-up. PasswordHash is already hashed.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Headline     *string
	Location     *string
	PortfolioURL *string
}

// UpdateProfileParams uses pointers so absent fields are left untouched.
type UpdateProfileParams struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Headline     *string `json:"headline,omitempty" validate:"omitempty,max=200"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=120"`
	PortfolioURL *string `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
}

// Session is the validated content of a session token.
type Session struct {
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PasswordResetToken struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserProfile is the editable public view of a User.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Headline     *string   `json:"headline"`
	Location     *string   `json:"location"`
	PortfolioURL *string   `json:"portfolioUrl"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Headline:     u.Headline,
		Location:     u.Location,
		PortfolioURL: u.PortfolioURL,
	}
}
