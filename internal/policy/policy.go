// Package policy implements the per-resource access-control rules.
//
// A policy is a small tagged variant chosen per resource type at
// configuration time. Authorization decisions are pure: they look only at
// the acting identity, the HTTP method and the resource's author, and
// return a distinguishable forbidden/unauthorized error on denial.
package policy

import (
	"fmt"

	"quill/internal/models"
)

// Variant selects one of the supported policy behaviors.
type Variant int

const (
	// OwnResourceOnly allows reads to everyone, including anonymous
	// identities; mutating methods only to the resource author.
	OwnResourceOnly Variant = iota
	// AuthorOrAdminOrReadOnly requires an authenticated identity for any
	// access; reads are then allowed, mutating methods only to the author
	// or an admin.
	AuthorOrAdminOrReadOnly
	// AdminOrReadOnly allows reads to everyone; mutating methods only to
	// admins.
	AdminOrReadOnly
)

// String returns the configuration name of the variant.
func (v Variant) String() string {
	switch v {
	case OwnResourceOnly:
		return "own-resource-only"
	case AuthorOrAdminOrReadOnly:
		return "author-or-admin-or-read-only"
	case AdminOrReadOnly:
		return "admin-or-read-only"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps a configuration string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "own-resource-only":
		return OwnResourceOnly, nil
	case "author-or-admin-or-read-only":
		return AuthorOrAdminOrReadOnly, nil
	case "admin-or-read-only":
		return AdminOrReadOnly, nil
	default:
		return OwnResourceOnly, fmt.Errorf("unknown policy variant %q", s)
	}
}

// Identity is the resolved acting identity for one request.
// The zero value is the anonymous identity.
type Identity struct {
	UserID        uint
	Authenticated bool
	IsAdmin       bool
}

// Anonymous is the unauthenticated identity.
var Anonymous = Identity{}

func isMutating(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}

// Authorize decides whether id may perform method on a resource owned by
// authorID under the given variant. It returns nil on allow, an
// UNAUTHORIZED error when the variant demands authentication the identity
// lacks, and a FORBIDDEN error on every other denial.
func Authorize(v Variant, id Identity, method string, authorID uint) error {
	switch v {
	case AuthorOrAdminOrReadOnly:
		if !id.Authenticated {
			return models.NewUnauthorizedError("Authentication required")
		}
		if !isMutating(method) {
			return nil
		}
		if id.UserID == authorID || id.IsAdmin {
			return nil
		}
		return models.NewForbiddenError("You can only modify your own resources")

	case AdminOrReadOnly:
		if !isMutating(method) {
			return nil
		}
		if id.Authenticated && id.IsAdmin {
			return nil
		}
		return models.NewForbiddenError("Admin access required")

	default: // OwnResourceOnly
		if !isMutating(method) {
			return nil
		}
		if !id.Authenticated {
			return models.NewUnauthorizedError("Authentication required")
		}
		if id.UserID == authorID {
			return nil
		}
		return models.NewForbiddenError("You can only modify your own resources")
	}
}
