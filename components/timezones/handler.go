package timezones

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
)

// HTTPError lets a guard choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a ready-made HTTPError.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionsResponse struct {
	Data []Option `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Handler builds the zone search handler from the default options plus
// overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from opts. The zone list is loaded on
// the first request and reused afterwards.
//
// Query parameters: SearchParam filters by substring, LimitParam caps the
// result count (clamped to MaxLimit). Responses are {"data":[Option...]}.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	zones := sync.OnceValues(func() ([]string, error) {
		if opts.Zones != nil {
			return opts.Zones, nil
		}
		return DefaultZones()
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, guardStatus(err), "forbidden")
				return
			}
		}

		list, err := zones()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "zones_unavailable")
			return
		}

		query := r.URL.Query()
		results := SearchOptions(list, query.Get(opts.SearchParam), parseLimit(query.Get(opts.LimitParam)), opts)
		if results == nil {
			results = []Option{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(optionsResponse{Data: results})
	})
}

func guardStatus(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return http.StatusForbidden
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:   code,
		Message: http.StatusText(status),
		Status:  status,
	})
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
