// Package hierarchy contains the pure authorization predicates: the four
// nested privilege tiers and the role-position manageability rules. No
// function here has side effects; absent data always evaluates to false.
package hierarchy

import (
	"slices"

	"github.com/rolekeeper/rolekeeper/internal/store"
)

// Tier is an ordered privilege level. Membership in a higher tier passes
// every check a lower tier would pass.
type Tier int

const (
	TierNone Tier = iota
	TierWL
	TierOwner
	TierSys
	TierSysPlus
)

func (t Tier) String() string {
	switch t {
	case TierWL:
		return "WL"
	case TierOwner:
		return "OWNER"
	case TierSys:
		return "SYS"
	case TierSysPlus:
		return "SYS+"
	default:
		return "NONE"
	}
}

// TierOf returns the highest tier the user belongs to.
func TierOf(doc *store.Document, userID string) Tier {
	switch {
	case slices.Contains(doc.SysPlus, userID):
		return TierSysPlus
	case slices.Contains(doc.Sys, userID):
		return TierSys
	case slices.Contains(doc.Owner, userID):
		return TierOwner
	case slices.Contains(doc.WL, userID):
		return TierWL
	default:
		return TierNone
	}
}

// HasTier reports whether the user's tier meets the minimum.
func HasTier(doc *store.Document, userID string, min Tier) bool {
	return TierOf(doc, userID) >= min
}
