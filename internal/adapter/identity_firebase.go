// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/utils"
	"github.com/MKhiriev/go-case-keeper/models"
)

// tokenVerifier is the part of the Admin SDK auth client used to double-check
// ID tokens returned by the REST API.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseIdentityProvider struct {
	client   *utils.HTTPClient
	apiKey   string
	verifier tokenVerifier

	logger *logger.Logger
}

// passwordRequest is the body of accounts:signUp and accounts:signInWithPassword.
type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// idpRequest is the body of accounts:signInWithIdp.
type idpRequest struct {
	PostBody          string `json:"postBody"`
	RequestURI        string `json:"requestUri"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// signInResponse is the common success payload of the sign-in endpoints.
type signInResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

// NewFirebaseIdentityProvider constructs an [IdentityProvider] backed by the
// Firebase Identity Toolkit REST API at cfg.Firebase.AuthBaseURL. When
// cfg.Firebase.VerifyTokens is set, every issued ID token is verified with
// the Admin SDK before the identity is accepted.
func NewFirebaseIdentityProvider(ctx context.Context, cfg config.ClientAdapter, log *logger.Logger) (IdentityProvider, error) {
	baseURL, err := normalizeBaseURL(cfg.Firebase.AuthBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth base url: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout)

	p := &firebaseIdentityProvider{client: client, apiKey: cfg.Firebase.APIKey, logger: log}

	if cfg.Firebase.VerifyTokens {
		app, err := newFirebaseApp(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			log.Err(err).Str("func", "NewFirebaseIdentityProvider").Msg("error getting auth client")
			return nil, fmt.Errorf("error getting auth client: %w", err)
		}
		p.verifier = authClient
	}

	return p, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (p *firebaseIdentityProvider) SignUp(ctx context.Context, email, password string) (models.Identity, error) {
	return p.signIn(ctx, "/accounts:signUp", passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
}

func (p *firebaseIdentityProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	return p.signIn(ctx, "/accounts:signInWithPassword", passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
}

func (p *firebaseIdentityProvider) SignInWithProvider(ctx context.Context, providerID, idToken string) (models.Identity, error) {
	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", providerID)

	return p.signIn(ctx, "/accounts:signInWithIdp", idpRequest{
		PostBody:          postBody.Encode(),
		RequestURI:        "http://localhost",
		ReturnSecureToken: true,
	})
}

// SignOut is local only: the REST API keeps no client session, and the ID
// token simply expires.
func (p *firebaseIdentityProvider) SignOut(ctx context.Context) error {
	p.logger.Debug().Str("func", "firebaseIdentityProvider.SignOut").Msg("signed out")
	return nil
}

func (p *firebaseIdentityProvider) signIn(ctx context.Context, endpoint string, body any) (models.Identity, error) {
	var out signInResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		p.logger.Err(err).Str("func", "firebaseIdentityProvider.signIn").Str("endpoint", endpoint).Msg("request failed")
		return models.Identity{}, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}
	if err = mapIdentityError(resp); err != nil {
		p.logger.Debug().Err(err).Str("func", "firebaseIdentityProvider.signIn").Str("endpoint", endpoint).Msg("sign-in rejected")
		return models.Identity{}, err
	}
	if out.LocalID == "" {
		return models.Identity{}, fmt.Errorf("%w: response carries no user id", ErrInvalidToken)
	}

	if p.verifier != nil {
		token, err := p.verifier.VerifyIDToken(ctx, out.IDToken)
		if err != nil {
			p.logger.Err(err).Str("func", "firebaseIdentityProvider.signIn").Msg("id token verification failed")
			return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		if token.UID != out.LocalID {
			return models.Identity{}, fmt.Errorf("%w: token subject mismatch", ErrInvalidToken)
		}
	}

	return models.Identity{ID: out.LocalID, Email: out.Email, IDToken: out.IDToken}, nil
}
