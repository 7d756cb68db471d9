package daichi

import (
	"context"
	"errors"
	"net/http"
)

const tokenEndpoint = "token"

// Credentials identify the account and the API the client talks to.
type Credentials struct {
	Username string
	Password string
	ClientID string
	BaseURL  string
}

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ClientID  string `json:"clientId"`
}

// Authenticate exchanges credentials for a bearer token with a password grant.
// It makes exactly one attempt.
func Authenticate(ctx context.Context, httpClient *http.Client, creds Credentials) (string, error) {
	target, err := resolve(creds.BaseURL, tokenEndpoint)
	if err != nil {
		return "", err
	}

	body, err := doJSON(ctx, httpClient, http.MethodPost, target, tokenEndpoint, tokenRequest{
		GrantType: "password",
		Email:     creds.Username,
		Password:  creds.Password,
		ClientID:  creds.ClientID,
	})
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return "", &AuthError{Message: "token request failed", Err: err}
	}

	env, err := decodeEnvelope[Token](tokenEndpoint, body, tokenEnvelope)
	if err != nil {
		loginTotal.WithLabelValues("invalid").Inc()
		return "", &AuthError{Message: "invalid token response", Err: err}
	}

	token, err := env.Result()
	if err != nil {
		loginTotal.WithLabelValues("rejected").Inc()
		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			return "", &AuthError{Message: serverErr.Message, Err: err}
		}
		return "", &AuthError{Message: err.Error(), Err: err}
	}

	if token.AccessToken == "" {
		loginTotal.WithLabelValues("rejected").Inc()
		return "", &AuthError{Message: "no token received"}
	}

	loginTotal.WithLabelValues("ok").Inc()
	return token.AccessToken, nil
}
