package entity

import (
	"time"
)

// Identity is the signed-in user as asserted by the identity provider.
type Identity struct {
	UserID      string  `json:"uid"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Email       string  `json:"email"`
}

// Token is a verified identity token.
type Token struct {
	ID        string
	ExpiresAt time.Time
}
