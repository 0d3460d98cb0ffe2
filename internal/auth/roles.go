package auth

// Closed set of principal types. Route allow-lists are always checked
// through RoleAllowed rather than ad-hoc string comparisons.
const (
	RoleUser     = "user"
	RoleMusician = "musician"
	RoleStudio   = "studio"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleMusician, RoleStudio:
		return true
	}
	return false
}

func RoleAllowed(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
