// Package policy centralizes authorization decisions so they can be tested
// without a web server. The core never authenticates; it receives a resolved
// principal and checks role and ownership here.
package policy

import "supplyhub/internal/domain"

// Principal is the session identity threaded through every core operation.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) Anonymous() bool { return p.UserID == "" }

// RequireRole rejects anonymous principals with Unauthorized and wrong-role
// principals with Forbidden.
func RequireRole(p Principal, role string) error {
	if p.Anonymous() {
		return domain.Errf(domain.KindUnauthorized, "login required")
	}
	if p.Role != role {
		return domain.Errf(domain.KindForbidden, "requires "+role+" role")
	}
	return nil
}

// RequireOwner ensures the principal owns the resource. Role checks are
// separate; callers combine the two as each operation demands.
func RequireOwner(p Principal, ownerID string) error {
	if p.Anonymous() {
		return domain.Errf(domain.KindUnauthorized, "login required")
	}
	if p.UserID != ownerID {
		return domain.Errf(domain.KindForbidden, "not the owner of this resource")
	}
	return nil
}
