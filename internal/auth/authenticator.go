// Package auth verifies user credentials and issues bearer tokens.
package auth

import (
	"context"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// Authenticator registers users and checks their credentials.
type Authenticator interface {
	// Register creates a user. Fails with a conflict when the email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credentials match.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
