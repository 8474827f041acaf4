package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"linkhive/internal/domain/models"
)

// liveQuery builds SELECT statements over soft-deletable tables.
// The base table and every JoinLive table get "alias.is_deleted = FALSE",
// so callers cannot forget the filter. Conditions use "?" placeholders
// which are renumbered to $n when the statement is rendered.
type liveQuery struct {
	columns string
	from    string
	joins   []string
	where   []string
	args    []any
	groupBy string
	orderBy string
	page    *models.Page
}

func selectLive(columns, table, alias string) *liveQuery {
	return &liveQuery{
		columns: columns,
		from:    table + " " + alias,
		where:   []string{alias + ".is_deleted = FALSE"},
	}
}

// JoinLive inner-joins another soft-deletable table, keeping only its live rows
func (q *liveQuery) JoinLive(table, alias, on string) *liveQuery {
	q.joins = append(q.joins, fmt.Sprintf("JOIN %s %s ON %s AND %s.is_deleted = FALSE", table, alias, on, alias))
	return q
}

// Join inner-joins a table without a soft-delete column (association rows)
func (q *liveQuery) Join(table, alias, on string) *liveQuery {
	q.joins = append(q.joins, fmt.Sprintf("JOIN %s %s ON %s", table, alias, on))
	return q
}

// LeftJoin outer-joins a table; on must carry any liveness condition itself
func (q *liveQuery) LeftJoin(table, alias, on string) *liveQuery {
	q.joins = append(q.joins, fmt.Sprintf("LEFT JOIN %s %s ON %s", table, alias, on))
	return q
}

func (q *liveQuery) Where(cond string, args ...any) *liveQuery {
	if strings.Count(cond, "?") != len(args) {
		panic(fmt.Sprintf("liveQuery: %q expects %d args, got %d", cond, strings.Count(cond, "?"), len(args)))
	}
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
	return q
}

// WhereParent matches parent_id against a nullable id
func (q *liveQuery) WhereParent(column string, parentID *string) *liveQuery {
	if parentID == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *parentID)
}

func (q *liveQuery) GroupBy(expr string) *liveQuery {
	q.groupBy = expr
	return q
}

func (q *liveQuery) OrderBy(expr string) *liveQuery {
	q.orderBy = expr
	return q
}

func (q *liveQuery) Page(p models.Page) *liveQuery {
	p = p.Normalize()
	q.page = &p
	return q
}

// SQL renders the full statement with numbered placeholders
func (q *liveQuery) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(q.columns)
	q.writeBody(&b)
	if q.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(q.groupBy)
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}

	args := append([]any(nil), q.args...)
	if q.page != nil {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.page.Limit, q.page.Offset)
	}
	return rebind(b.String()), args
}

// CountSQL renders a COUNT(*) over the same rows, ignoring order and paging
func (q *liveQuery) CountSQL() (string, []any) {
	var b strings.Builder
	if q.groupBy != "" {
		b.WriteString("SELECT COUNT(*) FROM (SELECT 1")
		q.writeBody(&b)
		b.WriteString(" GROUP BY ")
		b.WriteString(q.groupBy)
		b.WriteString(") grouped")
	} else {
		b.WriteString("SELECT COUNT(*)")
		q.writeBody(&b)
	}
	return rebind(b.String()), append([]any(nil), q.args...)
}

func (q *liveQuery) writeBody(b *strings.Builder) {
	b.WriteString(" FROM ")
	b.WriteString(q.from)
	for _, j := range q.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(q.where, " AND "))
}

// rebind replaces each "?" with $1, $2, ... in order of appearance
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
