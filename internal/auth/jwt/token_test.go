package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), Issuer: "hire-ai"})
	id := uuid.New()

	token, err := m.Issue(Client{ID: id, Name: "ats-sync", Scopes: []string{ScopeGenerate}})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ClientID)
	assert.Equal(t, "ats-sync", claims.Name)
	assert.Equal(t, id.String(), claims.Subject)
	assert.True(t, claims.HasScope(ScopeGenerate))
	assert.False(t, claims.HasScope(ScopeRoleSkills))
}

func TestIssueAssignsClientID(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret")})

	token, err := m.Issue(Client{Name: "cli"})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, claims.ClientID)
}

func TestValidateRejectsForeignSecretAndIssuer(t *testing.T) {
	token, err := NewManager(TokenConfig{Secret: []byte("one")}).Issue(Client{Name: "x"})
	require.NoError(t, err)

	_, err = NewManager(TokenConfig{Secret: []byte("two")}).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewManager(TokenConfig{Secret: []byte("one"), Issuer: "other"}).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewManager(TokenConfig{Secret: []byte("one")}).Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), TTL: time.Minute})
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(Client{Name: "old"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
