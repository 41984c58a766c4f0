// Package guards decides whether a view may be shown for a given session.
package guards

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-shop-client/sessions"
)

// Outcome is the result of evaluating a guard.
type Outcome int

const (
	Admit    Outcome = iota // Show the wrapped view
	Redirect                // Send the user to the landing view
	Wait                    // Session still loading, show nothing yet
	Forbid                  // Authenticated but not allowed
)

func (o Outcome) String() string {
	switch o {
	case Admit:
		return "admit"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	case Forbid:
		return "forbid"
	}
	return "unknown"
}

// Guard is a pure predicate over a session snapshot.
type Guard func(sessions.Session) Outcome

// Private admits authenticated sessions only.
func Private(s sessions.Session) Outcome {
	if s.IsLoading {
		return Wait
	}
	if s.IsAuthenticated {
		return Admit
	}
	return Redirect
}

// Restricted admits sessions that are NOT authenticated, keeping a logged in
// user away from the login and register views.
func Restricted(s sessions.Session) Outcome {
	if s.IsLoading {
		return Wait
	}
	if s.IsAuthenticated {
		return Redirect
	}
	return Admit
}

// Role admits authenticated sessions whose claims carry role.
func Role(role string) Guard {
	return func(s sessions.Session) Outcome {
		if o := Private(s); o != Admit {
			return o
		}
		if !s.User.HasRole(role) {
			return Forbid
		}
		return Admit
	}
}

// SessionSource supplies the current session snapshot.
type SessionSource interface {
	Session() sessions.Session
}

// Middleware applies guard to every request, redirecting to landing when the
// guard says so.
func Middleware(src SessionSource, guard Guard, landing string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch guard(src.Session()) {
			case Admit:
				next(w, r)
			case Redirect:
				http.Redirect(w, r, landing, http.StatusSeeOther)
			case Wait:
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, "session loading", http.StatusServiceUnavailable)
			default:
				writeJSONError(w, "forbidden", http.StatusForbidden)
			}
		}
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
