package jobsearch

import (
	"sort"
	"strings"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
)

// Matches evaluates e against j in memory.
func Matches(e Expr, j *entity.Job) bool {
	switch n := e.(type) {
	case nil:
		return true
	case And:
		for _, c := range n.Children {
			if !Matches(c, j) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range n.Children {
			if Matches(c, j) {
				return true
			}
		}
		return false
	case Contains:
		v, ok := textField(j, n.Field)
		return ok && strings.Contains(strings.ToLower(v), strings.ToLower(n.Value))
	case Compare:
		v := numberField(j, n.Field)
		if v == nil {
			return false
		}
		switch n.Op {
		case OpGTE:
			return *v >= n.Value
		case OpLTE:
			return *v <= n.Value
		}
		return false
	case IsNull:
		switch n.Field {
		case FieldSalaryMin, FieldSalaryMax:
			return numberField(j, n.Field) == nil
		case FieldLocation:
			return j.Location == nil
		}
		return false
	}
	return false
}

// SortJobs orders jobs in place by order.
func SortJobs(jobs []entity.Job, order []Sort) {
	sort.SliceStable(jobs, func(a, b int) bool {
		for _, s := range order {
			c := compareBy(&jobs[a], &jobs[b], s.Key)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareBy(a, b *entity.Job, key SortKey) int {
	switch key {
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortID:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
	}
	return 0
}

func textField(j *entity.Job, f Field) (string, bool) {
	switch f {
	case FieldTitle:
		return j.Title, true
	case FieldDescription:
		return j.Description, true
	case FieldLocation:
		if j.Location == nil {
			return "", false
		}
		return *j.Location, true
	}
	return "", false
}

func numberField(j *entity.Job, f Field) *int64 {
	switch f {
	case FieldSalaryMin:
		return j.SalaryMin
	case FieldSalaryMax:
		return j.SalaryMax
	}
	return nil
}
