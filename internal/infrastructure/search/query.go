package search

import (
	"fmt"
	"strings"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
)

var docFields = map[jobsearch.Field]string{
	jobsearch.FieldTitle:       "title",
	jobsearch.FieldDescription: "description",
	jobsearch.FieldLocation:    "location",
	jobsearch.FieldSalaryMin:   "salary_min",
	jobsearch.FieldSalaryMax:   "salary_max",
}

var sortFields = map[jobsearch.SortKey]string{
	jobsearch.SortCreatedAt: "created_at",
	jobsearch.SortID:        "id",
}

// compile turns a filter expression into an Elasticsearch query clause.
func compile(e jobsearch.Expr) (map[string]any, error) {
	switch n := e.(type) {
	case nil:
		return matchAll(), nil
	case jobsearch.And:
		if len(n.Children) == 0 {
			return matchAll(), nil
		}
		filters, err := compileAll(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"bool": map[string]any{"filter": filters}}, nil
	case jobsearch.Or:
		if len(n.Children) == 0 {
			return map[string]any{"match_none": map[string]any{}}, nil
		}
		should, err := compileAll(n.Children)
		if err != nil {
			return nil, err
		}
		return map[string]any{"bool": map[string]any{"should": should, "minimum_should_match": 1}}, nil
	case jobsearch.Contains:
		f, err := field(n.Field)
		if err != nil {
			return nil, err
		}
		return map[string]any{"wildcard": map[string]any{f: map[string]any{
			"value":            "*" + escapeWildcard(n.Value) + "*",
			"case_insensitive": true,
		}}}, nil
	case jobsearch.Compare:
		f, err := field(n.Field)
		if err != nil {
			return nil, err
		}
		var op string
		switch n.Op {
		case jobsearch.OpGTE:
			op = "gte"
		case jobsearch.OpLTE:
			op = "lte"
		default:
			return nil, fmt.Errorf("unsupported operator %q", n.Op)
		}
		return map[string]any{"range": map[string]any{f: map[string]any{op: n.Value}}}, nil
	case jobsearch.IsNull:
		f, err := field(n.Field)
		if err != nil {
			return nil, err
		}
		return map[string]any{"bool": map[string]any{"must_not": []any{
			map[string]any{"exists": map[string]any{"field": f}},
		}}}, nil
	}
	return nil, fmt.Errorf("unsupported filter node %T", e)
}

func compileAll(children []jobsearch.Expr) ([]any, error) {
	out := make([]any, 0, len(children))
	for _, c := range children {
		q, err := compile(c)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// maxResultWindow is the index.max_result_window default; from+size beyond
// it is rejected by the cluster.
const maxResultWindow = 10000

// searchBody builds the full search request body for q. Pages past the
// result window ask only for the total.
func searchBody(q jobsearch.Query) (map[string]any, error) {
	where, err := compile(q.Where)
	if err != nil {
		return nil, err
	}
	order := q.Order
	if len(order) == 0 {
		order = jobsearch.DefaultOrder
	}
	sort := make([]any, 0, len(order))
	for _, s := range order {
		f, ok := sortFields[s.Key]
		if !ok {
			return nil, fmt.Errorf("unknown sort key %q", s.Key)
		}
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		sort = append(sort, map[string]any{f: map[string]any{"order": dir}})
	}
	from, size := q.Page.Skip, q.Page.Limit
	if from < 0 || size < 0 || from > maxResultWindow-size {
		from, size = 0, 0
	}
	return map[string]any{
		"query":            where,
		"sort":             sort,
		"from":             from,
		"size":             size,
		"track_total_hits": true,
	}, nil
}

func matchAll() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

func field(f jobsearch.Field) (string, error) {
	name, ok := docFields[f]
	if !ok {
		return "", fmt.Errorf("unknown filter field %q", f)
	}
	return name, nil
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}
