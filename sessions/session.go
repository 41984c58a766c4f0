package sessions

import "github.com/jrsteele09/go-shop-client/token"

// State is the authentication state of the client session.
type State int

const (
	StateUninitialized State = iota // Store created, durable storage not read yet
	StateLoading                    // Initialization in progress
	StateAuthenticated              // Holding a decodable, unexpired token
	StateAnonymous                  // No usable token
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Session is an immutable snapshot of the client session.
// IsAuthenticated is true iff Token was decodable and unexpired at last validation.
type Session struct {
	State           State         `json:"state"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	IsLoading       bool          `json:"isLoading"`
	User            *token.Claims `json:"user"` // Decoded claims, nil when anonymous
	Token           string        `json:"-"`    // Bearer token, empty when anonymous
}

func initialSession() Session {
	return Session{State: StateUninitialized, IsLoading: true}
}

func anonymousSession() Session {
	return Session{State: StateAnonymous}
}

func authenticatedSession(rawToken string, claims *token.Claims) Session {
	return Session{
		State:           StateAuthenticated,
		IsAuthenticated: true,
		User:            claims,
		Token:           rawToken,
	}
}

// Email returns the user's email, or "" when anonymous.
func (s Session) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}
