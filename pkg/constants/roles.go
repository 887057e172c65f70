package constants

import "slices"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

var Roles = []string{RoleAdmin, RoleEditor, RoleUser}

// IsStaff - может редактировать контент сайта.
func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

func IsRole(role string) bool {
	return slices.Contains(Roles, role)
}

// Типы заявок: школа ревматолога и регистрация на конгресс.
const (
	SchoolTypeRheumatologist = "rheumatologist"
	SchoolTypeCongress       = "congress"
)
