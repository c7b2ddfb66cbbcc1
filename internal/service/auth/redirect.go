package auth

import "github.com/phrazzld/blogsphere-api/internal/domain"

// Landing paths chosen after a successful login.
const (
	AdminHome   = "/admin"
	BloggerHome = "/dashboard"
	ReaderHome  = "/blogs"
	DefaultHome = "/"
)

// destinations is checked in order; the first held role wins.
var destinations = []struct {
	role domain.Role
	path string
}{
	{domain.RoleAdmin, AdminHome},
	{domain.RoleBlogger, BloggerHome},
	{domain.RoleReader, ReaderHome},
}

// Destination returns the landing path for a principal holding roles.
// A user holding several roles lands on the highest-precedence one.
func Destination(roles []domain.Role) string {
	for _, d := range destinations {
		if domain.HasRole(roles, d.role) {
			return d.path
		}
	}
	return DefaultHome
}
