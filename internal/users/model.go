package users

import (
	"time"

	"portfolio-backend/internal/auth"
)

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         auth.Role `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (u User) Principal() *auth.Principal {
	return &auth.Principal{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

type LoginResult struct {
	User  *auth.Principal `json:"user"`
	Token string          `json:"token"`
}

type CreateRequest struct {
	Username string    `validate:"notblank"`
	Email    string    `validate:"required,email"`
	Password string    `validate:"min=6"`
	Role     auth.Role `validate:"oneof=admin user"`
}
