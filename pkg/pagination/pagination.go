package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows a list query can request.
	MaxLimit = 200
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Bounds carries the configured default and ceiling.
type Bounds struct {
	Default int
	Max     int
}

// DefaultBounds mirrors DefaultLimit/MaxLimit.
var DefaultBounds = Bounds{Default: DefaultLimit, Max: MaxLimit}

func (b Bounds) normalized() Bounds {
	if b.Default <= 0 {
		b.Default = DefaultLimit
	}
	if b.Max <= 0 {
		b.Max = MaxLimit
	}
	if b.Default > b.Max {
		b.Default = b.Max
	}
	return b
}

// NormalizeLimit applies the default to non-positive limits and clamps to the ceiling.
func (b Bounds) NormalizeLimit(limit int) int {
	b = b.normalized()
	if limit <= 0 {
		return b.Default
	}
	if limit > b.Max {
		return b.Max
	}
	return limit
}

// Normalize returns params safe to hand to a repository.
func (b Bounds) Normalize(p Params) Params {
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Limit = b.NormalizeLimit(p.Limit)
	return p
}

// Parse reads raw limit/offset query values. Empty values fall back to the
// defaults; malformed or negative values are rejected.
func (b Bounds) Parse(rawLimit, rawOffset string) (Params, error) {
	var p Params
	if v := strings.TrimSpace(rawLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("limit must be a positive integer")
		}
		p.Limit = n
	}
	if v := strings.TrimSpace(rawOffset); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Params{}, fmt.Errorf("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	return b.Normalize(p), nil
}
