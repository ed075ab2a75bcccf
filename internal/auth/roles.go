package auth

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Allowed reports whether role satisfies any of the required roles. An empty
// required set means any authenticated caller passes.
func Allowed(role string, required ...string) bool {
	if len(required) == 0 {
		return role != ""
	}
	for _, want := range required {
		if role == want {
			return true
		}
	}
	return false
}
