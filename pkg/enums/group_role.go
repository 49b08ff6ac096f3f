package enums

import "fmt"

// GroupRole maps to the group_role enum in Postgres.
type GroupRole string

const (
	GroupRoleOwner  GroupRole = "owner"
	GroupRoleMember GroupRole = "member"
)

var validGroupRoles = []GroupRole{GroupRoleOwner, GroupRoleMember}

// IsValid checks whether the given role matches the canonical enum.
func (r GroupRole) IsValid() bool {
	for _, candidate := range validGroupRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseGroupRole converts raw strings into GroupRole.
func ParseGroupRole(value string) (GroupRole, error) {
	for _, candidate := range validGroupRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group role %q", value)
}
