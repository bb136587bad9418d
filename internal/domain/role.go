package domain

// ClientAccess is one (partner, client) pair a role is allowed to view.
type ClientAccess struct {
	PartnerSlug string `json:"partner_slug" db:"partner_slug"`
	ClientSlug  string `json:"client_slug"  db:"client_slug"`
	ClientName  string `json:"client_name"  db:"client_name"`
}

// RoleRecord is the authorization record returned by the identity provider's
// role-lookup procedure. It is derived state: recomputed on every session
// establishment, never persisted by this application.
type RoleRecord struct {
	Authorized  bool           `json:"authorized"`
	Role        string         `json:"role"`
	PartnerSlug string         `json:"partner_slug"`
	IsAdmin     bool           `json:"is_admin"`
	DisplayName string         `json:"display_name"`
	Clients     []ClientAccess `json:"clients"`
}

// CanAccess reports whether this role may view the given partner and,
// when client is non-empty, the given client under that partner.
// A nil or unauthorized record always denies. Admins bypass all scoping.
func (r *RoleRecord) CanAccess(partner, client string) bool {
	if r == nil || !r.Authorized || r.Role == "" {
		return false
	}
	if r.IsAdmin {
		return true
	}
	if r.PartnerSlug != partner {
		return false
	}
	if client == "" {
		return true
	}
	for _, c := range r.Clients {
		if c.PartnerSlug == partner && c.ClientSlug == client {
			return true
		}
	}
	return false
}
