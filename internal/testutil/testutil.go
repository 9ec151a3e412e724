// Package testutil contains helper functions for unit tests.
package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GetContext gets a context for a testing.T.
func GetContext(t *testing.T, maxWait time.Duration) context.Context {
	t.Helper()

	ctx := context.Background()
	ctx, clearTimeout := context.WithTimeout(ctx, maxWait)
	t.Cleanup(clearTimeout)

	if deadline, ok := t.Deadline(); ok {
		var clearDeadline context.CancelFunc
		ctx, clearDeadline = context.WithDeadline(ctx, deadline)
		t.Cleanup(clearDeadline)
	}

	return ctx
}

// AssertJSONEqual asserts that two JSON documents are structurally equal.
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...any) bool {
	t.Helper()

	var e, a any
	require.NoError(t, json.Unmarshal([]byte(expected), &e), "expected is not JSON")
	require.NoError(t, json.Unmarshal([]byte(actual), &a), "actual is not JSON")
	return assert.True(t, cmp.Equal(e, a), append(msgAndArgs, cmp.Diff(e, a))...)
}

// Token returns an HS256 JWT for subject that expires at exp. A zero exp
// produces a token without an exp claim.
func Token(t testing.TB, subject string, exp time.Time) string {
	t.Helper()

	sig, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.HS256,
		Key:       []byte("0123456789abcdef0123456789abcdef"),
	}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)

	claims := jwt.Claims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if !exp.IsZero() {
		claims.Expiry = jwt.NewNumericDate(exp)
	}
	raw, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	require.NoError(t, err)
	return raw
}
