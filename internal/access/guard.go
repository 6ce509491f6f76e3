package access

import "github.com/angelmondragon/tastetrack-storefront/pkg/enums"

const (
	AdminLoginPath = "/admin/login"
	LoginPath      = "/auth"
)

// Requirement is the capability a destination demands.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAdmin
	RequireVendor
)

func (r Requirement) String() string {
	switch r {
	case RequireAdmin:
		return "admin"
	case RequireVendor:
		return "vendor"
	}
	return "none"
}

// Facts describe the caller's identity as far as the guard cares.
type Facts struct {
	Authenticated bool
	Role          enums.Role
	// Malformed marks an identity record that exists but cannot be read.
	Malformed bool
}

// Decision is the guard's verdict. RedirectTo is set whenever Allowed is false.
type Decision struct {
	Allowed       bool
	RedirectTo    string
	PurgeIdentity bool
}

// Decide evaluates facts against req. A malformed identity counts as signed
// out and asks the caller to purge it.
func Decide(f Facts, req Requirement) Decision {
	purge := f.Malformed
	authenticated := f.Authenticated && !f.Malformed

	var d Decision
	switch req {
	case RequireAdmin:
		if authenticated && f.Role == enums.RoleAdmin {
			d = Decision{Allowed: true}
		} else {
			d = Decision{RedirectTo: AdminLoginPath}
		}
	case RequireVendor:
		if authenticated && f.Role == enums.RoleVendor {
			d = Decision{Allowed: true}
		} else {
			d = Decision{RedirectTo: LoginPath}
		}
	default:
		d = Decision{Allowed: true}
	}
	d.PurgeIdentity = purge
	return d
}

// FactsFrom builds facts from a token flag and a stored identity payload.
// An absent token or payload means signed out; a payload that decode
// rejects is malformed.
func FactsFrom(tokenPresent bool, payload string, decode func(string) (enums.Role, error)) Facts {
	if !tokenPresent || payload == "" {
		return Facts{}
	}
	role, err := decode(payload)
	if err != nil {
		return Facts{Malformed: true}
	}
	return Facts{Authenticated: true, Role: role}
}
