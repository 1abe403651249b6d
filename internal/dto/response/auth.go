package response

import (
	"movie-explorer/internal/data/entity"
)

type IdentityResponse struct {
	UserID      string  `json:"uid"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Email       string  `json:"email,omitempty"`
}

func IdentityToResponse(identity *entity.Identity) IdentityResponse {
	return IdentityResponse{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
		Email:       identity.Email,
	}
}
