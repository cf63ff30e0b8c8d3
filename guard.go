package session

// Default navigation targets the guard redirects to.
const (
	LoginRoute     = "/login"
	DefaultLanding = "/"
)

// DecisionKind enumerates the outcomes of an access check.
type DecisionKind int

const (
	// DecisionPending means a token exists but its claims are not resolved
	// yet; render a loading state and make no access call.
	DecisionPending DecisionKind = iota
	// DecisionAllow admits the navigation.
	DecisionAllow
	// DecisionRedirect denies the navigation and names the target to go to.
	DecisionRedirect
)

// Decision is the guard's verdict for a single navigation.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// Pending reports whether the auth state is still being resolved.
func (d Decision) Pending() bool {
	return d.Kind == DecisionPending
}

// CanAccess gates a navigation on the current auth state. It is a pure
// function: no token redirects to login, a token without resolved claims is
// pending, and resolved claims below the required role bounce to the default
// landing route. An empty required role admits any authenticated user.
func CanAccess(state AuthState, required UserRole) Decision {
	if state.Token != "" && state.User == nil {
		return Decision{Kind: DecisionPending}
	}

	if state.Token == "" {
		return Decision{Kind: DecisionRedirect, Target: LoginRoute}
	}

	if required == "" || UserRole(state.User.Role()).IsAtLeast(required) {
		return Decision{Kind: DecisionAllow}
	}

	return Decision{Kind: DecisionRedirect, Target: DefaultLanding}
}
