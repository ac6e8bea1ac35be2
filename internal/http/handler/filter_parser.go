package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/http/response"
)

var errInvalidCompleted = errors.New(`must be "true", "false" or "all"`)

// parseFilterQuery reads an ad-hoc filter from query parameters:
//
//	category=Work
//	priority=high
//	completed=true|false|all
//	q=report
//
// "all" or an empty value leaves that dimension unconstrained. The second
// return value reports whether any filter parameter was present at all.
func parseFilterQuery(q url.Values) (domain.Filter, bool, error) {
	var f domain.Filter
	present := false

	if q.Has("category") {
		present = true
		if v := q.Get("category"); v != "" && !strings.EqualFold(v, "all") {
			f.Category = &v
		}
	}

	if q.Has("priority") {
		present = true
		if v := q.Get("priority"); v != "" && !strings.EqualFold(v, "all") {
			p, err := domain.NewPriority(v)
			if err != nil {
				return f, true, response.Invalid("priority", err)
			}
			f.Priority = &p
		}
	}

	if q.Has("completed") {
		present = true
		if v := q.Get("completed"); v != "" && !strings.EqualFold(v, "all") {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return f, true, response.Invalid("completed", errInvalidCompleted)
			}
			f.Completed = &b
		}
	}

	if q.Has("q") {
		present = true
		f.SearchQuery = q.Get("q")
	}

	return f, present, nil
}
