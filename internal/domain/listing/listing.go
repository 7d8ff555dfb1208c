package listing

import (
	"strconv"
	"strings"
)

const MaxLimit = 100

// Options is the caller-facing list request: an ordering key, a direction
// and an optional limit (0 means no limit).
type Options struct {
	OrderBy   string
	Direction string
	Limit     int
}

// Order is a resolved, whitelisted ordering safe to splice into SQL.
type Order struct {
	Column    string
	Ascending bool
}

func (o Order) SQL() string {
	if o.Ascending {
		return o.Column + " ASC"
	}
	return o.Column + " DESC"
}

// Resolve maps opts onto one of the allowed columns, falling back to def
// when the requested key is empty or not allowed.
func (o Options) Resolve(def Order, allowed ...string) Order {
	out := def
	key := strings.ToLower(strings.TrimSpace(o.OrderBy))
	for _, a := range allowed {
		if a == key {
			out.Column = a
			break
		}
	}
	switch strings.ToLower(o.Direction) {
	case "asc":
		out.Ascending = true
	case "desc":
		out.Ascending = false
	}
	return out
}

// ResolvedLimit clamps the limit into [0, MaxLimit].
func (o Options) ResolvedLimit() int {
	if o.Limit <= 0 {
		return 0
	}
	if o.Limit > MaxLimit {
		return MaxLimit
	}
	return o.Limit
}

// CacheKey renders a resolved order and limit as query key segments. Every
// request that resolves to the same query shares one key.
func (o Order) CacheKey(limit int) []string {
	dir := "desc"
	if o.Ascending {
		dir = "asc"
	}
	return []string{o.Column, dir, strconv.Itoa(limit)}
}
