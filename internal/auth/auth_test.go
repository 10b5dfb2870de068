package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

func TestRoleByName(t *testing.T) {
	t.Run("resolves known roles", func(t *testing.T) {
		for _, name := range []string{"applicant", "tier1_verifier", "tier2_verifier", "admin"} {
			role, err := RoleByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, role.Name())
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := RoleByName("superuser")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleApplicant.Can(CapSubmitLetter))
	assert.False(t, RoleApplicant.Can(CapDecideTier1))
	assert.True(t, RoleTier1Verifier.Can(CapDecideTier1))
	assert.False(t, RoleTier1Verifier.Can(CapDecideTier2))
	assert.True(t, RoleTier2Verifier.Can(CapDecideTier2))
	assert.True(t, RoleAdmin.Can(CapManageLetterTypes))
	assert.False(t, RoleAdmin.Can(CapSubmitLetter))
}

func TestScopeCovers(t *testing.T) {
	applicant := Scope{Unit: "RW-05", SubUnit: "RT-02"}

	t.Run("tier 1 requires exact sub-unit match", func(t *testing.T) {
		assert.True(t, Scope{Unit: "RW-05", SubUnit: "RT-02"}.Covers(applicant, 1))
		assert.False(t, Scope{Unit: "RW-05", SubUnit: "RT-03"}.Covers(applicant, 1))
		assert.False(t, Scope{Unit: "RW-06", SubUnit: "RT-02"}.Covers(applicant, 1))
	})

	t.Run("tier 2 covers any sub-unit within the unit", func(t *testing.T) {
		assert.True(t, Scope{Unit: "RW-05"}.Covers(applicant, 2))
		assert.False(t, Scope{Unit: "RW-06"}.Covers(applicant, 2))
	})

	t.Run("unknown tier covers nothing", func(t *testing.T) {
		assert.False(t, Scope{Unit: "RW-05", SubUnit: "RT-02"}.Covers(applicant, 3))
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-signing-key", 15*time.Minute)
	session := Session{
		UserID:     id.UserID(uuid.New()),
		NationalID: "3201011201990001",
		Role:       RoleTier1Verifier,
		Scope:      Scope{Unit: "RW-05", SubUnit: "RT-02"},
	}

	token, err := svc.Issue(session, time.Now())
	require.NoError(t, err)

	got, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.NationalID, got.NationalID)
	assert.Equal(t, session.Role.Name(), got.Role.Name())
	assert.Equal(t, session.Scope, got.Scope)
}

func TestTokenValidateRejects(t *testing.T) {
	svc := NewTokenService("test-signing-key", 15*time.Minute)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewTokenService("different-key", 15*time.Minute)
		token, err := other.Issue(Session{
			UserID: id.UserID(uuid.New()),
			Role:   RoleApplicant,
		}, time.Now())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.Issue(Session{
			UserID: id.UserID(uuid.New()),
			Role:   RoleApplicant,
		}, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
