package session

type Outcome int

const (
	// Placeholder means no decision yet; show neither content nor redirect.
	Placeholder Outcome = iota
	Redirect
	Render
)

func (o Outcome) String() string {
	switch o {
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Decide is the route guard: protected content renders only for an
// authenticated session.
func Decide(state State, loginPath string) Decision {
	switch state {
	case StateAuthenticated:
		return Decision{Outcome: Render}
	case StateUnauthenticated:
		return Decision{Outcome: Redirect, RedirectTo: loginPath}
	}
	return Decision{Outcome: Placeholder}
}
