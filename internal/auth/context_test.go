package auth

import (
	"context"
	"testing"

	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_Roundtrip(t *testing.T) {
	user := &UserContext{
		UserID:      "user-1",
		DisplayName: "Vendedor Um",
		Email:       "user1@example.com",
		Roles:       []domain.UserRoleType{domain.RoleSalesperson},
	}

	ctx := WithUserContext(context.Background(), user)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestUserContext_HasRole(t *testing.T) {
	user := &UserContext{Roles: []domain.UserRoleType{domain.RoleRealtor, domain.RoleSalesperson}}

	assert.True(t, user.HasRole(domain.RoleRealtor))
	assert.False(t, user.HasRole(domain.RoleAdmin))
	assert.True(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleSalesperson))
	assert.False(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleAgency))
}

func TestUserContext_PrimaryRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []domain.UserRoleType
		want  domain.UserRoleType
	}{
		{"admin wins over participant roles", []domain.UserRoleType{domain.RoleRealtor, domain.RoleAdmin}, domain.RoleAdmin},
		{"agency wins over correspondent", []domain.UserRoleType{domain.RoleCorrespondent, domain.RoleAgency}, domain.RoleAgency},
		{"single role", []domain.UserRoleType{domain.RoleSalesperson}, domain.RoleSalesperson},
		{"no roles defaults to client", nil, domain.RoleClient},
		{"unknown role defaults to client", []domain.UserRoleType{"viewer"}, domain.RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &UserContext{Roles: tt.roles}
			assert.Equal(t, tt.want, user.PrimaryRole())
		})
	}
}
