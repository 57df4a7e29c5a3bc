// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/utils"
	"github.com/MKhiriev/go-case-keeper/models"
)

const minPasswordLength = 6

type memoryAccount struct {
	id           string
	email        string
	passwordHash []byte
}

type memoryIdentityProvider struct {
	mu       sync.Mutex
	accounts map[string]memoryAccount
	ids      *utils.UUIDGenerator

	logger *logger.Logger
}

// NewMemoryIdentityProvider constructs an in-process [IdentityProvider].
// Passwords are kept as bcrypt hashes; accounts live for the process
// lifetime only.
func NewMemoryIdentityProvider(log *logger.Logger) IdentityProvider {
	return &memoryIdentityProvider{
		accounts: make(map[string]memoryAccount),
		ids:      utils.NewUUIDGenerator(),
		logger:   log,
	}
}

func (p *memoryIdentityProvider) SignUp(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength {
		return models.Identity{}, fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Err(err).Str("func", "memoryIdentityProvider.SignUp").Msg("error hashing password")
		return models.Identity{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; ok {
		return models.Identity{}, ErrEmailExists
	}

	acc := memoryAccount{id: p.ids.Generate(), email: email, passwordHash: hash}
	p.accounts[email] = acc
	return models.Identity{ID: acc.id, Email: acc.email}, nil
}

func (p *memoryIdentityProvider) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	acc, ok := p.accounts[email]
	p.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	return models.Identity{ID: acc.id, Email: acc.email}, nil
}

// SignInWithProvider trusts idToken as an opaque subject: the same
// provider/token pair always yields the same identity.
func (p *memoryIdentityProvider) SignInWithProvider(ctx context.Context, providerID, idToken string) (models.Identity, error) {
	if providerID == "" || idToken == "" {
		return models.Identity{}, ErrInvalidToken
	}

	key := providerID + "/" + idToken

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[key]
	if !ok {
		acc = memoryAccount{id: p.ids.Generate()}
		p.accounts[key] = acc
	}
	return models.Identity{ID: acc.id, Email: acc.email}, nil
}

func (p *memoryIdentityProvider) SignOut(context.Context) error {
	return nil
}
