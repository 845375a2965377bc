// Package query assembles parameterized Postgres statements from typed
// predicates and assignments. Values are only ever bound as positional
// parameters; column names and base statements are trusted constants.
package query

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNoAssignments = errors.New("query: no assignments")

// Predicate renders a single boolean condition. bind registers a value and
// returns its placeholder.
type Predicate interface {
	SQL(bind func(any) string) string
}

type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

type eq struct {
	column string
	value  any
}

func (p eq) SQL(bind func(any) string) string {
	return p.column + " = " + bind(p.value)
}

// Eq matches column = value.
func Eq(column string, value any) Predicate {
	return eq{column: column, value: value}
}

// EnumEq matches column = value when value is one of allowed. Any other
// value, including "", yields no predicate at all.
func EnumEq(column, value string, allowed ...string) Predicate {
	for _, candidate := range allowed {
		if value == candidate {
			return eq{column: column, value: value}
		}
	}
	return nil
}

type search struct {
	term    string
	columns []string
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p search) SQL(bind func(any) string) string {
	placeholder := bind("%" + likeEscaper.Replace(p.term) + "%")
	parts := make([]string, len(p.columns))
	for i, column := range p.columns {
		parts[i] = column + " ILIKE " + placeholder + ` ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Search matches a case-insensitive substring of term in any of columns.
// A blank term yields no predicate.
func Search(term string, columns ...string) Predicate {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return nil
	}
	return search{term: term, columns: columns}
}

func renderWhere(b *binder, preds []Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.SQL(b.bind)
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func appendPredicates(dst []Predicate, preds []Predicate) []Predicate {
	for _, p := range preds {
		if p != nil {
			dst = append(dst, p)
		}
	}
	return dst
}

// Select is a SELECT statement with optional filtering, ordering and paging.
type Select struct {
	base   string
	where  []Predicate
	order  string
	limit  int
	offset int
	paged  bool
}

func From(base string) *Select {
	return &Select{base: strings.TrimSpace(base)}
}

// Where ANDs preds onto the statement. Nil predicates are skipped.
func (s *Select) Where(preds ...Predicate) *Select {
	s.where = appendPredicates(s.where, preds)
	return s
}

// NewestFirst orders by column descending.
func (s *Select) NewestFirst(column string) *Select {
	s.order = column + " DESC"
	return s
}

func (s *Select) Page(limit, offset int) *Select {
	s.limit = limit
	s.offset = offset
	s.paged = true
	return s
}

func (s *Select) Build() (string, []any) {
	b := &binder{}
	var sb strings.Builder
	sb.WriteString(s.base)
	sb.WriteString(renderWhere(b, s.where))
	if s.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s.order)
	}
	if s.paged {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.bind(s.limit))
		sb.WriteString(" OFFSET ")
		sb.WriteString(b.bind(s.offset))
	}
	return sb.String(), b.args
}

// Assignment is one column = value pair of an UPDATE. When expr is set the
// column is assigned that SQL expression instead of a bound value.
type Assignment struct {
	Column string
	Value  any
	expr   string
}

func Set(column string, value any) Assignment {
	return Assignment{Column: column, Value: value}
}

func Now(column string) Assignment {
	return Assignment{Column: column, expr: "NOW()"}
}

// Update is an UPDATE statement built from assignments.
type Update struct {
	table     string
	sets      []Assignment
	where     []Predicate
	returning string
}

func UpdateTable(table string) *Update {
	return &Update{table: table}
}

func (u *Update) Set(assignments ...Assignment) *Update {
	u.sets = append(u.sets, assignments...)
	return u
}

func (u *Update) Where(preds ...Predicate) *Update {
	u.where = appendPredicates(u.where, preds)
	return u
}

func (u *Update) Returning(columns string) *Update {
	u.returning = columns
	return u
}

// Build fails with ErrNoAssignments unless at least one value assignment was
// added; expression-only assignments such as Now do not count.
func (u *Update) Build() (string, []any, error) {
	hasValue := false
	for _, a := range u.sets {
		if a.expr == "" {
			hasValue = true
			break
		}
	}
	if !hasValue {
		return "", nil, ErrNoAssignments
	}

	b := &binder{}
	parts := make([]string, len(u.sets))
	for i, a := range u.sets {
		if a.expr != "" {
			parts[i] = a.Column + " = " + a.expr
			continue
		}
		parts[i] = a.Column + " = " + b.bind(a.Value)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(u.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(renderWhere(b, u.where))
	if u.returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(u.returning)
	}
	return sb.String(), b.args, nil
}
