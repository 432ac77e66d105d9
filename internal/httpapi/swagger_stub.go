//go:build !swagger

package httpapi

import "github.com/go-chi/chi/v5"

// MountSwagger leaves /swagger unrouted. Build with -tags=swagger to serve
// the UI from the generated docs package.
func MountSwagger(chi.Router) {}
