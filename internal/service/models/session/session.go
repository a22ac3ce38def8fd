package session

import "fmt"

// UnknownActor is recorded when neither an admin nor a customer is present.
const UnknownActor = "unknown"

// Session carries the identity facts of the current request. It replaces the
// original global session state with an explicit value passed at call
// boundaries.
type Session struct {
	AdminID    int64
	AdminName  string
	CustomerID int64
}

// AdminPresent reports whether an authenticated admin is attached.
func (s Session) AdminPresent() bool {
	return s.AdminID > 0
}

// CustomerPresent reports whether a customer session is attached.
func (s Session) CustomerPresent() bool {
	return s.CustomerID > 0
}

// ActorLabel derives the "updated by" label: "name [id]" for an admin, an
// empty string for a customer session, UnknownActor when neither is present.
func (s Session) ActorLabel() string {
	if s.AdminPresent() {
		return fmt.Sprintf("%s [%d]", s.AdminName, s.AdminID)
	}

	if !s.CustomerPresent() {
		return UnknownActor
	}

	return ""
}
