// Package jobsearch turns optional job search parameters into a store-agnostic
// filter expression plus a pagination descriptor.
package jobsearch

// Field names a filterable job attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldLocation    Field = "location"
	FieldSalaryMin   Field = "salaryMin"
	FieldSalaryMax   Field = "salaryMax"
)

// Op is a numeric comparison operator.
type Op string

const (
	OpGTE Op = ">="
	OpLTE Op = "<="
)

// Expr is a node of a filter expression. The concrete node types are
// Contains, Compare, IsNull, And and Or.
type Expr interface {
	expr()
}

// Contains matches when Field contains Value, ignoring case.
type Contains struct {
	Field Field
	Value string
}

// Compare matches when Field is set and satisfies Op against Value.
type Compare struct {
	Field Field
	Op    Op
	Value int64
}

// IsNull matches when Field is unset.
type IsNull struct {
	Field Field
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Children []Expr
}

// Or matches when at least one child matches. An empty Or matches nothing.
type Or struct {
	Children []Expr
}

func (Contains) expr() {}
func (Compare) expr()  {}
func (IsNull) expr()   {}
func (And) expr()      {}
func (Or) expr()       {}
