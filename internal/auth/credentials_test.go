package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("test.Password123")
	require.NoError(t, err)

	assert.NotEqual(t, "test.Password123", hash, "plaintext must never be stored")
	assert.True(t, VerifyPassword(hash, "test.Password123"))
	assert.False(t, VerifyPassword(hash, "wrong.Password123"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("test.Password123")
	require.NoError(t, err)
	second, err := HashPassword("test.Password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCapabilitiesFor(t *testing.T) {
	testCases := []struct {
		name          string
		isStaff       bool
		isSuperuser   bool
		manageCatalog bool
		adminAll      bool
	}{
		{"RegularUser", false, false, false, false},
		{"Staff", true, false, true, false},
		{"Superuser", false, true, true, true},
		{"StaffSuperuser", true, true, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			caps := CapabilitiesFor(tc.isStaff, tc.isSuperuser)
			assert.Equal(t, tc.manageCatalog, caps.Has(CapManageCatalog))
			assert.Equal(t, tc.adminAll, caps.Has(CapAdminAll))
		})
	}
}

func TestAdminAllImpliesEverything(t *testing.T) {
	caps := CapabilitySet{CapAdminAll: {}}
	assert.True(t, caps.Has(Capability("anything:whatsoever")))
}
