package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/osse101/zombie-showcase-server/internal/store"
)

// parseFindOptions reads the optional limit/skip/orderBy query parameters
// used by the list endpoints. Zero values defer to the store defaults.
func parseFindOptions(r *http.Request) (store.FindOptions, error) {
	var opts store.FindOptions

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return opts, fmt.Errorf("invalid limit %q", raw)
		}
		opts.Limit = limit
	}
	if raw := r.URL.Query().Get("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || skip < 0 {
			return opts, fmt.Errorf("invalid skip %q", raw)
		}
		opts.Skip = skip
	}
	opts.OrderBy = r.URL.Query().Get("orderBy")

	return opts, nil
}
