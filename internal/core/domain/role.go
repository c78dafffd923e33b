package domain

import "strings"

// Role is the coarse capability tag derived from principal metadata.
type Role string

const (
	RoleCollector Role = "collector"
	RoleCreator   Role = "creator"
	RoleInvestor  Role = "investor"
	RoleAdmin     Role = "admin"
)

// ResolveRole maps a principal to its role. The mapping is total: a
// recognised role tag (case-insensitive) wins, an admin flag without a tag
// promotes to admin, everything else is a collector.
func ResolveRole(p *Principal) Role {
	if p == nil {
		return RoleCollector
	}
	switch strings.ToLower(strings.TrimSpace(p.RoleTag)) {
	case "admin":
		return RoleAdmin
	case "creator":
		return RoleCreator
	case "investor":
		return RoleInvestor
	case "collector":
		return RoleCollector
	}
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleCollector
}
