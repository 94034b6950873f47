package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds one table request. Filters compose in call order; the zero
// filter set matches every row, so Update and Delete refuse to run without
// at least one filter.
type Query struct {
	c      *Client
	table  string
	params url.Values
}

// From starts a query against the named table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select sets the column list for reads.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters on column equality.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Gte filters on column >= value.
func (q *Query) Gte(column, value string) *Query {
	q.params.Add(column, "gte."+value)
	return q
}

// Lt filters on column < value.
func (q *Query) Lt(column, value string) *Query {
	q.params.Add(column, "lt."+value)
	return q
}

// Order sorts results by the given column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) path() string { return "/rest/v1/" + q.table }

// Get executes the read and unmarshals the row list into dest, which must be
// a pointer to a slice.
func (q *Query) Get(ctx context.Context, dest any) error {
	body, err := q.c.do(ctx, http.MethodGet, q.path(), q.params, nil)
	if err != nil {
		return fmt.Errorf("querying %s: %w", q.table, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("querying %s: decode rows: %w", q.table, err)
	}
	return nil
}

// Insert writes rows (a struct or slice of structs). When dest is non-nil
// the inserted representation is unmarshaled into it.
func (q *Query) Insert(ctx context.Context, rows any, dest any) error {
	body, err := q.c.do(ctx, http.MethodPost, q.path(), q.params, rows)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", q.table, err)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("inserting into %s: decode representation: %w", q.table, err)
	}
	return nil
}

// Update patches all rows matching the filters.
func (q *Query) Update(ctx context.Context, patch any) error {
	if len(q.filterParams()) == 0 {
		return fmt.Errorf("updating %s: refusing unfiltered update", q.table)
	}
	if _, err := q.c.do(ctx, http.MethodPatch, q.path(), q.params, patch); err != nil {
		return fmt.Errorf("updating %s: %w", q.table, err)
	}
	return nil
}

// Delete removes all rows matching the filters.
func (q *Query) Delete(ctx context.Context) error {
	if len(q.filterParams()) == 0 {
		return fmt.Errorf("deleting from %s: refusing unfiltered delete", q.table)
	}
	if _, err := q.c.do(ctx, http.MethodDelete, q.path(), q.params, nil); err != nil {
		return fmt.Errorf("deleting from %s: %w", q.table, err)
	}
	return nil
}

// filterParams returns the params that narrow row selection, excluding
// shaping params like select/order/limit.
func (q *Query) filterParams() url.Values {
	filters := url.Values{}
	for k, vs := range q.params {
		switch k {
		case "select", "order", "limit":
		default:
			filters[k] = vs
		}
	}
	return filters
}
