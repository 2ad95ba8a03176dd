package firebase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Options configures the Firebase app used to verify client ID tokens.
type Options struct {
	CredentialsPath string
	// ProjectID overrides the project read from the credentials file.
	ProjectID string
	// CheckRevoked rejects tokens of disabled users or revoked sessions.
	// It costs one Auth API call per request.
	CheckRevoked bool
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// App verifies Firebase ID tokens for the auth middleware.
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client

	verifier     tokenVerifier
	checkRevoked bool
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, opts Options) (*App, error) {
	if opts.CredentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(opts.CredentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", opts.CredentialsPath)
	}

	var appConfig *firebase.Config
	if opts.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}

	firebaseApp, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(opts.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Printf("Firebase auth ready (check revoked: %v)", opts.CheckRevoked)
	return &App{
		FirebaseApp:  firebaseApp,
		AuthClient:   authClient,
		verifier:     authClient,
		checkRevoked: opts.CheckRevoked,
	}, nil
}

// VerifyIDToken checks the token signature and claims, and its revocation
// state when CheckRevoked was set.
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if a == nil || a.verifier == nil {
		return nil, errors.New("firebase auth client not initialized")
	}
	if a.checkRevoked {
		return a.verifier.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	}
	return a.verifier.VerifyIDToken(ctx, idToken)
}
