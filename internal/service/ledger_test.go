package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/billtracker/internal/storage"
	"github.com/rryowa/billtracker/internal/util"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 64)
}

func TestRefreshTokenLedger_Issue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	env.ledger.now = func() time.Time { return now }

	raw, rec, err := env.ledger.Issue(ctx, "user-1", "")
	require.NoError(t, err)

	decoded, err := hex.DecodeString(raw)
	require.NoError(t, err)
	assert.Len(t, decoded, util.RawTokenLength)

	assert.NotEmpty(t, rec.FamilyID)
	assert.Equal(t, Fingerprint(raw), rec.TokenHash)
	assert.NotEqual(t, raw, rec.TokenHash)
	assert.Equal(t, now.Add(env.ledger.TTL()), rec.ExpiresAt)
	assert.False(t, rec.IsRevoked)

	raw2, rec2, err := env.ledger.Issue(ctx, "user-1", rec.FamilyID)
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.Equal(t, rec.FamilyID, rec2.FamilyID)
	assert.NotEqual(t, rec.ID, rec2.ID)
}

func TestRefreshTokenLedger_FindAndRevoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raw, rec, err := env.ledger.Issue(ctx, "user-1", "")
	require.NoError(t, err)
	_, _, err = env.ledger.Issue(ctx, "user-1", rec.FamilyID)
	require.NoError(t, err)

	found, err := env.ledger.FindByRawSecret(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)

	_, err = env.ledger.FindByRawSecret(ctx, "unknown")
	assert.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)

	ok, err := env.ledger.RevokeOne(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.ledger.RevokeOne(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second revoke must report it lost")

	require.NoError(t, env.ledger.RevokeFamily(ctx, rec.FamilyID))
	require.NoError(t, env.ledger.RevokeFamily(ctx, rec.FamilyID))

	family := env.store.FamilyTokens(rec.FamilyID)
	require.Len(t, family, 2)
	for _, tok := range family {
		assert.True(t, tok.IsRevoked, "token %s", tok.ID)
	}
}
