package utils

import (
	"fmt"
	"strings"
)

// Workflow roles. Each non-terminal status names exactly one of these as its
// gatekeeper; admin may bypass the owning-role check as a flagged override.
const (
	RoleStudent        = "student"
	RoleSocietyOwner   = "society_owner"
	RoleBoardSecretary = "board_secretary"
	RoleBoardPresident = "board_president"
	RoleRegistrar      = "registrar"
	RoleVC             = "vc"
	RoleAdmin          = "admin"
)

var knownRoles = map[string]struct{}{
	RoleStudent:        {},
	RoleSocietyOwner:   {},
	RoleBoardSecretary: {},
	RoleBoardPresident: {},
	RoleRegistrar:      {},
	RoleVC:             {},
	RoleAdmin:          {},
}

// ParseRole normalizes and validates a role name.
func ParseRole(s string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(s))
	if _, ok := knownRoles[role]; !ok {
		return "", fmt.Errorf("unknown role: %s", s)
	}
	return role, nil
}
