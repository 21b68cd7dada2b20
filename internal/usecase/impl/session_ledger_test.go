package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFixtures holds all test dependencies for session ledger tests.
type ledgerFixtures struct {
	ledger  usecase.SessionLedger
	factory *fakeFactory
}

func createTestLedger(t *testing.T) ledgerFixtures {
	t.Helper()

	factory := newFakeFactory()
	ledger := NewSessionLedger(factory.SessionRepo(), fakeHasher{}, newTestConfig(), newDiscardLogger())

	return ledgerFixtures{ledger: ledger, factory: factory}
}

func TestSessionLedger_IssueAndValidate_FastPath(t *testing.T) {
	fx := createTestLedger(t)
	userID := uuid.New()

	issued, err := fx.ledger.Issue(context.Background(), userID, "agent", "203.0.113.9")
	require.NoError(t, err)
	assert.Len(t, issued.RawToken, 64)

	session, err := fx.ledger.Validate(context.Background(), issued.RawToken, &issued.SessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.NotEqual(t, issued.RawToken, session.TokenDigest)
}

func TestSessionLedger_Validate_WrongToken(t *testing.T) {
	fx := createTestLedger(t)

	issued, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)

	_, err = fx.ledger.Validate(context.Background(), "wrong-token", &issued.SessionID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))

	_, err = fx.ledger.Validate(context.Background(), "", &issued.SessionID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}

func TestSessionLedger_Validate_ScanWithoutHint(t *testing.T) {
	fx := createTestLedger(t)
	userID := uuid.New()

	// Several live sessions so the scan has to pick the right digest.
	for i := 0; i < 3; i++ {
		_, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
		require.NoError(t, err)
	}
	issued, err := fx.ledger.Issue(context.Background(), userID, "", "")
	require.NoError(t, err)

	session, err := fx.ledger.Validate(context.Background(), issued.RawToken, nil)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, issued.SessionID, session.ID)
}

func TestSessionLedger_Validate_ExpiredSession(t *testing.T) {
	fx := createTestLedger(t)

	expired := &entity.Session{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		TokenDigest: "digest:stale-token",
		ExpiresAt:   time.Now().Add(-time.Minute),
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, fx.factory.SessionRepo().Create(context.Background(), expired))

	// Expired rows are inert on both paths regardless of sweep timing.
	_, err := fx.ledger.Validate(context.Background(), "stale-token", &expired.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))

	_, err = fx.ledger.Validate(context.Background(), "stale-token", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}

func TestSessionLedger_Rotate_ConsumesOldSession(t *testing.T) {
	fx := createTestLedger(t)
	userID := uuid.New()

	issued, err := fx.ledger.Issue(context.Background(), userID, "", "")
	require.NoError(t, err)
	session, err := fx.ledger.Validate(context.Background(), issued.RawToken, &issued.SessionID)
	require.NoError(t, err)

	replacement, err := fx.ledger.Rotate(context.Background(), fx.factory, session, "agent", "")
	require.NoError(t, err)
	assert.NotEqual(t, issued.SessionID, replacement.SessionID)
	assert.NotEqual(t, issued.RawToken, replacement.RawToken)

	// The old token no longer validates, the replacement does.
	_, err = fx.ledger.Validate(context.Background(), issued.RawToken, &issued.SessionID)
	assert.Error(t, err)
	_, err = fx.ledger.Validate(context.Background(), replacement.RawToken, &replacement.SessionID)
	assert.NoError(t, err)
}

func TestSessionLedger_Rotate_SecondRotationLoses(t *testing.T) {
	fx := createTestLedger(t)

	issued, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)
	session, err := fx.ledger.Validate(context.Background(), issued.RawToken, &issued.SessionID)
	require.NoError(t, err)

	// Two rotations race on the same stale session; the delete-by-id rows
	// check lets exactly one proceed.
	_, err = fx.ledger.Rotate(context.Background(), fx.factory, session, "", "")
	require.NoError(t, err)

	_, err = fx.ledger.Rotate(context.Background(), fx.factory, session, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthorized))
}

func TestSessionLedger_Revoke_Idempotent(t *testing.T) {
	fx := createTestLedger(t)

	issued, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)

	require.NoError(t, fx.ledger.Revoke(context.Background(), issued.SessionID))
	require.NoError(t, fx.ledger.Revoke(context.Background(), issued.SessionID))
	require.NoError(t, fx.ledger.Revoke(context.Background(), uuid.New()))
}

func TestSessionLedger_RevokeByToken(t *testing.T) {
	fx := createTestLedger(t)

	issued, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)

	require.NoError(t, fx.ledger.RevokeByToken(context.Background(), issued.RawToken))

	_, err = fx.ledger.Validate(context.Background(), issued.RawToken, &issued.SessionID)
	assert.Error(t, err)

	require.NoError(t, fx.ledger.RevokeByToken(context.Background(), "unknown"))
	require.NoError(t, fx.ledger.RevokeByToken(context.Background(), ""))
}

func TestSessionLedger_ActiveSessions_ScopedToUser(t *testing.T) {
	fx := createTestLedger(t)
	userID := uuid.New()

	_, err := fx.ledger.Issue(context.Background(), userID, "laptop", "203.0.113.9")
	require.NoError(t, err)
	_, err = fx.ledger.Issue(context.Background(), userID, "phone", "203.0.113.10")
	require.NoError(t, err)
	_, err = fx.ledger.Issue(context.Background(), uuid.New(), "stranger", "")
	require.NoError(t, err)

	sessions, err := fx.ledger.ActiveSessions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, userID, session.UserID)
	}
}

func TestSessionLedger_RevokeAll(t *testing.T) {
	fx := createTestLedger(t)
	userID := uuid.New()

	_, err := fx.ledger.Issue(context.Background(), userID, "", "")
	require.NoError(t, err)
	_, err = fx.ledger.Issue(context.Background(), userID, "", "")
	require.NoError(t, err)
	other, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)

	require.NoError(t, fx.ledger.RevokeAll(context.Background(), userID))

	sessions, err := fx.ledger.ActiveSessions(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Other users keep their sessions.
	_, err = fx.ledger.Validate(context.Background(), other.RawToken, &other.SessionID)
	assert.NoError(t, err)
}

func TestSessionLedger_Issue_SweepsExpiredRows(t *testing.T) {
	fx := createTestLedger(t)

	expired := &entity.Session{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		TokenDigest: "digest:old",
		ExpiresAt:   time.Now().Add(-time.Minute),
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, fx.factory.SessionRepo().Create(context.Background(), expired))

	_, err := fx.ledger.Issue(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)

	_, err = fx.factory.SessionRepo().FindByID(context.Background(), expired.ID)
	require.Error(t, err)
}
