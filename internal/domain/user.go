package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthorSummary es la vista publica del autor embebida en posts.
type AuthorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func (u User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
