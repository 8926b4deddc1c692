package timezones

import (
	"errors"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ErrMissingRouter is returned when Mount is given a nil router.
var ErrMissingRouter = errors.New("timezones: missing router")

// MountPath joins basePath and the configured route path.
func MountPath(basePath string, fns ...OptionFn) string {
	return joinPath(basePath, NewOptions(fns...).RoutePath)
}

// Mount registers the zone search handler on r and returns the pattern used.
func Mount(r chi.Router, basePath string, fns ...OptionFn) (string, error) {
	return MountWithOptions(r, basePath, NewOptions(fns...))
}

// MountWithOptions is Mount with a pre-built Options value.
func MountWithOptions(r chi.Router, basePath string, opts Options) (string, error) {
	if r == nil {
		return "", ErrMissingRouter
	}
	pattern := joinPath(basePath, opts.RoutePath)
	r.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

func joinPath(basePath, routePath string) string {
	routePath = "/" + strings.Trim(strings.TrimSpace(routePath), "/")
	basePath = strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		return routePath
	}
	if routePath == "/" {
		return "/" + basePath
	}
	return "/" + basePath + routePath
}
