package service

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, projectID, credentialsJSON string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return "", errors.New("id token carries no email")
	}
	return email, nil
}

var _ IDTokenVerifier = (*FirebaseVerifier)(nil)
