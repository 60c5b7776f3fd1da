package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
)

var jobFilterColumns = map[jobsearch.Field]string{
	jobsearch.FieldTitle:       "j.title",
	jobsearch.FieldDescription: "j.description",
	jobsearch.FieldLocation:    "j.location",
	jobsearch.FieldSalaryMin:   "j.salary_min",
	jobsearch.FieldSalaryMax:   "j.salary_max",
}

var jobSortColumns = map[jobsearch.SortKey]string{
	jobsearch.SortCreatedAt: "j.created_at",
	jobsearch.SortID:        "j.id",
}

// sqlFilter compiles filter expressions into a parameterized WHERE clause.
// Values only ever travel as bind arguments.
type sqlFilter struct {
	args []any
}

func (f *sqlFilter) bind(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

func (f *sqlFilter) compile(e jobsearch.Expr) (string, error) {
	switch n := e.(type) {
	case nil:
		return "TRUE", nil
	case jobsearch.And:
		return f.join(n.Children, " AND ", "TRUE")
	case jobsearch.Or:
		return f.join(n.Children, " OR ", "FALSE")
	case jobsearch.Contains:
		col, err := column(n.Field)
		if err != nil {
			return "", err
		}
		return col + " ILIKE " + f.bind("%"+escapeLike(n.Value)+"%"), nil
	case jobsearch.Compare:
		col, err := column(n.Field)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case jobsearch.OpGTE, jobsearch.OpLTE:
			return col + " " + string(n.Op) + " " + f.bind(n.Value), nil
		}
		return "", fmt.Errorf("unsupported operator %q", n.Op)
	case jobsearch.IsNull:
		col, err := column(n.Field)
		if err != nil {
			return "", err
		}
		return col + " IS NULL", nil
	}
	return "", fmt.Errorf("unsupported filter node %T", e)
}

func (f *sqlFilter) join(children []jobsearch.Expr, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, c := range children {
		s, err := f.compile(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func column(field jobsearch.Field) (string, error) {
	col, ok := jobFilterColumns[field]
	if !ok {
		return "", fmt.Errorf("unknown filter field %q", field)
	}
	return col, nil
}

func orderBy(order []jobsearch.Sort) (string, error) {
	if len(order) == 0 {
		order = jobsearch.DefaultOrder
	}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		col, ok := jobSortColumns[s.Key]
		if !ok {
			return "", fmt.Errorf("unknown sort key %q", s.Key)
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

// escapeLike escapes LIKE wildcards using the default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
