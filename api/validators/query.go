package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// ParsePagination reads limit and offset. An oversized limit is capped at
// bounds.Max rather than rejected.
func ParsePagination(r *http.Request, bounds pagination.Bounds) (pagination.Params, error) {
	q := r.URL.Query()
	p, err := bounds.Parse(q.Get("limit"), q.Get("offset"))
	if err != nil {
		return pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return p, nil
}

// QueryString returns the trimmed first value of the first key that is set.
func QueryString(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}
