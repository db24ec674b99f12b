package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	for _, perm := range []Permission{
		PermReadDeleted, PermHardDelete, PermRecoverAny, PermMutateAny, PermManageCategories,
	} {
		assert.True(t, RoleAdmin.Can(perm), "admin should hold %s", perm)
		assert.False(t, RoleUser.Can(perm), "user should not hold %s", perm)
	}
	assert.False(t, Role("ghost").Can(PermReadDeleted))
}

func TestPrincipalPrivileged(t *testing.T) {
	var p *Principal
	assert.False(t, p.Privileged(), "nil principal is anonymous")
	assert.False(t, (&Principal{Role: RoleUser}).Privileged())
	assert.True(t, (&Principal{Role: RoleAdmin}).Privileged())
}

func TestPrincipalOwns(t *testing.T) {
	owner := &Principal{ID: "u1", Role: RoleUser}
	assert.True(t, owner.Owns("u1"))
	assert.False(t, owner.Owns("u2"))

	// admin 越过归属
	admin := &Principal{ID: "a1", Role: RoleAdmin}
	assert.True(t, admin.Owns("u2"))

	var anon *Principal
	assert.False(t, anon.Owns("u1"))
}
