package service

import (
	"testing"
	"time"

	"github.com/ridloal/e-commerce-storefront/internal/platform/clock"
	"github.com/ridloal/e-commerce-storefront/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSessionIssuer(t *testing.T) {
	clk := clock.NewFake(time.Now())
	issuer := NewJWTSessionIssuer("test-secret", time.Hour, clk)
	user := domain.User{ID: "user-42", Email: "ann@example.com"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	t.Run("Valid token", func(t *testing.T) {
		subject, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", subject)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewJWTSessionIssuer("another-secret", time.Hour, clk)
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("Expired", func(t *testing.T) {
		clk.Advance(2 * time.Hour)
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}
