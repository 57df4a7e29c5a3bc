// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-case-keeper/internal/logger"
)

func TestMemoryIdentity_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryIdentityProvider(logger.Nop())

	created, err := p.SignUp(ctx, "Lawyer@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "lawyer@example.com", created.Email)

	got, err := p.SignIn(ctx, "lawyer@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = p.SignIn(ctx, "lawyer@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryIdentity_SignUpErrors(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryIdentityProvider(logger.Nop())

	_, err := p.SignUp(ctx, "a@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = p.SignUp(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "a@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestMemoryIdentity_ProviderSignInIsStable(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryIdentityProvider(logger.Nop())

	first, err := p.SignInWithProvider(ctx, "google.com", "tok")
	require.NoError(t, err)
	second, err := p.SignInWithProvider(ctx, "google.com", "tok")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = p.SignInWithProvider(ctx, "google.com", "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, p.SignOut(ctx))
}
