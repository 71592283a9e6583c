package client

// Role is a route requirement. Founders satisfy RoleStartup.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStartup Role = "startup"
)

type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides whether a route guarded by allowed may be shown for state.
func Guard(state State, allowed ...Role) Decision {
	if !state.IsAuthenticated {
		return Decision{Redirect: "/login"}
	}
	for _, r := range allowed {
		if r == RoleAdmin && !state.IsAdmin {
			return Decision{Redirect: "/"}
		}
		if r == RoleStartup && !state.IsStartup {
			return Decision{Redirect: "/"}
		}
	}
	return Decision{Allow: true}
}
