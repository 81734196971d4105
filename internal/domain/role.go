package domain

import "strings"

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusInactive            Status = "INACTIVE"
	StatusSuspended           Status = "SUSPENDED"
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusDeleted             Status = "DELETED"
)

// Role is the authorization role embedded in tokens.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAdmin        Role = "ADMIN"
	RoleUser         Role = "USER"
	RoleGuest        Role = "GUEST"
	RolePremiumUser  Role = "PREMIUM_USER"
	RoleBusinessUser Role = "BUSINESS_USER"
)

// Gender is an optional profile attribute.
type Gender string

const (
	GenderMale           Gender = "MALE"
	GenderFemale         Gender = "FEMALE"
	GenderOther          Gender = "OTHER"
	GenderPreferNotToSay Gender = "PREFER_NOT_TO_SAY"
)

// ValidRoles returns every role.
func ValidRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleUser, RoleGuest, RolePremiumUser, RoleBusinessUser}
}

// IsValidRole checks whether r is a known role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles() {
		if v == r {
			return true
		}
	}
	return false
}

// IsValidStatus checks whether s is a known status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPendingVerification, StatusDeleted:
		return true
	}
	return false
}

// ParseGender accepts any case and returns "" with false for unknown values.
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return g, true
	}
	return "", false
}
