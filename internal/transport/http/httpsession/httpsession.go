package httpsession

import (
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/status/internal/service/models/session"
)

// Identity headers set by the gateway in front of this service.
const (
	HeaderAdminID    = "X-Admin-Id"
	HeaderAdminName  = "X-Admin-Name"
	HeaderCustomerID = "X-Customer-Id"
)

// FromRequest builds the request session from the identity headers. Missing
// or malformed headers yield an anonymous session.
func FromRequest(r *http.Request) session.Session {
	sess := session.Session{
		AdminName: r.Header.Get(HeaderAdminName),
	}

	if v, err := strconv.ParseInt(r.Header.Get(HeaderAdminID), 10, 64); err == nil {
		sess.AdminID = v
	}
	if v, err := strconv.ParseInt(r.Header.Get(HeaderCustomerID), 10, 64); err == nil {
		sess.CustomerID = v
	}

	return sess
}
