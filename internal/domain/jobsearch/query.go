package jobsearch

// SortKey is a column the result set is ordered by.
type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortID        SortKey = "id"
)

// Sort orders results by Key.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Pagination is the page window applied after filtering and sorting.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// Query is the compiled form of a Filter that stores execute.
type Query struct {
	Where Expr
	Order []Sort
	Page  Pagination
}

// PageInfo describes a result page to the client.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// DefaultOrder is newest first, with id as the tie-breaker so equal
// timestamps still paginate deterministically.
var DefaultOrder = []Sort{
	{Key: SortCreatedAt, Desc: true},
	{Key: SortID, Desc: false},
}

// Build translates f into a Query. It is deterministic: the same filter always
// yields the same expression tree.
func Build(f Filter) Query {
	page := clampPage(f.Page)
	limit := clampLimit(f.Limit)

	var preds []Expr
	if f.Keyword != "" {
		preds = append(preds, Or{Children: []Expr{
			Contains{Field: FieldTitle, Value: f.Keyword},
			Contains{Field: FieldDescription, Value: f.Keyword},
		}})
	}
	if f.Location != "" {
		preds = append(preds, Contains{Field: FieldLocation, Value: f.Location})
	}
	if f.MinSalary != nil {
		m := *f.MinSalary
		preds = append(preds, Or{Children: []Expr{
			Compare{Field: FieldSalaryMax, Op: OpGTE, Value: m},
			IsNull{Field: FieldSalaryMax},
			Compare{Field: FieldSalaryMin, Op: OpGTE, Value: m},
		}})
	}
	if f.MaxSalary != nil {
		x := *f.MaxSalary
		preds = append(preds, Or{Children: []Expr{
			Compare{Field: FieldSalaryMin, Op: OpLTE, Value: x},
			IsNull{Field: FieldSalaryMin},
			Compare{Field: FieldSalaryMax, Op: OpLTE, Value: x},
		}})
	}

	order := make([]Sort, len(DefaultOrder))
	copy(order, DefaultOrder)

	return Query{
		Where: And{Children: preds},
		Order: order,
		Page:  Pagination{Page: page, Limit: limit, Skip: (page - 1) * limit},
	}
}

// Describe builds the pagination descriptor for total matching records.
func (p Pagination) Describe(total int64) PageInfo {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return PageInfo{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
