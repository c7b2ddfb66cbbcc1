package auth

import (
	"testing"

	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		roles []domain.Role
		want  string
	}{
		{"admin", []domain.Role{domain.RoleAdmin}, "/admin"},
		{"blogger", []domain.Role{domain.RoleBlogger}, "/dashboard"},
		{"reader", []domain.Role{domain.RoleReader}, "/blogs"},
		{"no roles", nil, "/"},
		{"unknown role", []domain.Role{"ROLE_GUEST"}, "/"},
		{"admin wins over reader", []domain.Role{domain.RoleReader, domain.RoleAdmin}, "/admin"},
		{"blogger wins over reader", []domain.Role{domain.RoleReader, domain.RoleBlogger}, "/dashboard"},
		{"all roles", []domain.Role{domain.RoleReader, domain.RoleBlogger, domain.RoleAdmin}, "/admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Destination(tt.roles))
		})
	}
}
