package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	req := require.New(t)

	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.Issue("Alice")
	req.NoError(err)

	name, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal("Alice", name)
}

func TestValidate_RejectsForeignToken(t *testing.T) {
	req := require.New(t)

	issuer := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	token, err := other.Issue("Alice")
	req.NoError(err)

	_, err = issuer.Validate(token)
	req.Error(err)
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)

	issuer := NewIssuer("secret", -time.Minute)
	token, err := issuer.Issue("Alice")
	req.NoError(err)

	_, err = issuer.Validate(token)
	req.Error(err)
}

func TestNewIssuer_DisabledWithoutSecret(t *testing.T) {
	require.Nil(t, NewIssuer("", time.Hour))
}
