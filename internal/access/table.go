package access

import (
	"fmt"
	"path"
	"strings"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
)

// Table maps each role to the path prefixes it may open.
type Table map[domain.Role][]string

// DefaultTable is the compiled-in role table. Receptionist API calls live
// under /api/resepsionis.
func DefaultTable() Table {
	return Table{
		domain.RoleAdmin:        {"/api/admin", "/admin/"},
		domain.RoleReceptionist: {"/api/resepsionis", "/resepsionis/"},
		domain.RoleCustomer:     {"/api/pelanggan", "/pelanggan/"},
	}
}

// Validate requires every known role to have at least one non-empty prefix.
func (t Table) Validate() error {
	for _, role := range domain.Roles {
		prefixes := t[role]
		if len(prefixes) == 0 {
			return fmt.Errorf("access table: role %q has no prefixes", role)
		}
		for _, p := range prefixes {
			if !strings.HasPrefix(p, "/") {
				return fmt.Errorf("access table: role %q prefix %q must start with /", role, p)
			}
		}
	}
	for role := range t {
		if _, ok := domain.ParseRole(string(role)); !ok {
			return fmt.Errorf("access table: unknown role %q", role)
		}
	}
	return nil
}

// Allows reports whether path starts with one of role's prefixes.
func (t Table) Allows(role domain.Role, path string) bool {
	for _, p := range t[role] {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// clone copies the table so callers cannot mutate a gate after construction.
func (t Table) clone() Table {
	out := make(Table, len(t))
	for role, prefixes := range t {
		out[role] = append([]string(nil), prefixes...)
	}
	return out
}

// loginPrefix covers /auth/login and /auth/login-as-guest.
const loginPrefix = "/auth/login"

// gatedPrefixes are matched on segment boundaries; see utils.HasPathPrefix.
var gatedPrefixes = []string{
	"/admin",
	"/resepsionis",
	"/pelanggan",
	"/api/admin",
	"/api/resepsionis",
	"/api/pelanggan",
}

// CleanPath resolves dot segments and repeated slashes, keeping a trailing
// slash. The gate only decides on cleaned paths.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	clean := path.Clean(p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean
}

// IsLoginPath reports whether path belongs to the login family.
func IsLoginPath(path string) bool {
	return strings.HasPrefix(path, loginPrefix)
}

// IsGated reports whether the gate must run for path.
func IsGated(path string) bool {
	if IsLoginPath(path) {
		return true
	}
	for _, p := range gatedPrefixes {
		if utils.HasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsAPIPath separates JSON callers from page navigations.
func IsAPIPath(path string) bool {
	return utils.HasPathPrefix(path, "/api")
}
