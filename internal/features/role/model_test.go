package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatrix(t *testing.T) {
	m := DefaultMatrix()

	tests := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleAdministrator, CapabilityApprove, true},
		{RoleAdministrator, CapabilityManage, true},
		{RoleEditor, CapabilityApprove, true},
		{RoleEditor, CapabilityBulkOps, true},
		{RoleEditor, CapabilityManage, false},
		{RoleAuthor, CapabilityViewQueue, true},
		{RoleAuthor, CapabilityApprove, false},
		{RoleContributor, CapabilityViewQueue, false},
		{RoleContributor, CapabilityApprove, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Allows(tt.role, tt.capability),
			"%s / %s", tt.role, tt.capability)
	}
}

func TestMatrixUnknownRoleDeniesEverything(t *testing.T) {
	m := DefaultMatrix()
	assert.False(t, m.Allows(Role("superuser"), CapabilityApprove))
}

func TestNewMatrixRejectsUnknownEntries(t *testing.T) {
	_, err := NewMatrix(map[Role][]Capability{
		Role("wizard"): {CapabilityApprove},
	})
	require.Error(t, err)

	_, err = NewMatrix(map[Role][]Capability{
		RoleEditor: {Capability("cast_spells")},
	})
	require.Error(t, err)

	m, err := NewMatrix(map[Role][]Capability{
		RoleEditor: {CapabilityApprove},
	})
	require.NoError(t, err)
	assert.True(t, m.Allows(RoleEditor, CapabilityApprove))
	assert.False(t, m.Allows(RoleAdministrator, CapabilityApprove))
}
