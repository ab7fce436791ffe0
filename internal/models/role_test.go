package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	t.Run("host has every capability", func(t *testing.T) {
		perms := RoleHost.Permissions()
		assert.True(t, perms.CanCreateEpisodes)
		assert.True(t, perms.CanDeleteEpisodes)
		assert.True(t, perms.CanInviteMembers)
		assert.True(t, perms.CanManageTeam)
		assert.True(t, perms.CanPublish)
		assert.True(t, perms.CanApprove)
		assert.True(t, perms.CanEditAll)
		assert.True(t, perms.CanViewAnalytics)
		assert.True(t, perms.CanManageWorkspace)
	})

	t.Run("editor approves but does not publish", func(t *testing.T) {
		perms := RoleEditor.Permissions()
		assert.True(t, perms.CanApprove)
		assert.True(t, perms.CanEditAll)
		assert.False(t, perms.CanPublish)
		assert.False(t, perms.CanManageWorkspace)
	})

	t.Run("marketer publishes but does not approve", func(t *testing.T) {
		perms := RoleMarketer.Permissions()
		assert.True(t, perms.CanPublish)
		assert.True(t, perms.CanViewAnalytics)
		assert.False(t, perms.CanApprove)
		assert.False(t, perms.CanEditAll)
	})

	t.Run("va cannot approve", func(t *testing.T) {
		perms := RoleVA.Permissions()
		assert.True(t, perms.CanCreateEpisodes)
		assert.False(t, perms.CanApprove)
		assert.False(t, perms.CanPublish)
	})

	t.Run("unknown role has no capabilities", func(t *testing.T) {
		assert.Equal(t, Permissions{}, Role("admin").Permissions())
	})
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleHost, RoleEditor, RoleMarketer, RoleVA} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}
