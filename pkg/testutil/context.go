package testutil

import (
	"net/http"

	"bimadesk/pkg/requestcontext"
)

// WithActor adds an audit actor to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
