package thehive

// Filter is a node of the service's search language. Filters marshal to the
// JSON shapes expected by the query endpoint, e.g.
// {"_eq": {"_field": "title", "_value": "foo"}}.
type Filter map[string]interface{}

func fieldFilter(op, field string, value interface{}) Filter {
	return Filter{op: map[string]interface{}{"_field": field, "_value": value}}
}

// Eq matches records whose field equals value.
func Eq(field string, value interface{}) Filter { return fieldFilter("_eq", field, value) }

// Ne matches records whose field differs from value.
func Ne(field string, value interface{}) Filter { return fieldFilter("_ne", field, value) }

// Gt matches records whose field is strictly greater than value.
func Gt(field string, value interface{}) Filter { return fieldFilter("_gt", field, value) }

// Gte matches records whose field is greater than or equal to value.
func Gte(field string, value interface{}) Filter { return fieldFilter("_gte", field, value) }

// Lt matches records whose field is strictly lower than value.
func Lt(field string, value interface{}) Filter { return fieldFilter("_lt", field, value) }

// Lte matches records whose field is lower than or equal to value.
func Lte(field string, value interface{}) Filter { return fieldFilter("_lte", field, value) }

// Like matches records whose field contains value as a substring.
func Like(field, value string) Filter { return fieldFilter("_like", field, value) }

// Between matches records whose field lies in [from, to).
func Between(field string, from, to interface{}) Filter {
	return Filter{"_between": map[string]interface{}{"_field": field, "_from": from, "_to": to}}
}

// In matches records whose field equals one of values.
func In(field string, values ...interface{}) Filter {
	return Filter{"_in": map[string]interface{}{"_field": field, "_values": values}}
}

// Contains matches records that have the given field set.
func Contains(field string) Filter { return Filter{"_contains": field} }

// And matches records satisfying every given filter.
func And(filters ...Filter) Filter { return Filter{"_and": filters} }

// Or matches records satisfying at least one of the given filters.
func Or(filters ...Filter) Filter { return Filter{"_or": filters} }

// Not inverts a filter.
func Not(f Filter) Filter { return Filter{"_not": f} }

// Or combines f with other into a disjunction.
func (f Filter) Or(other Filter) Filter { return Or(f, other) }

// And combines f with other into a conjunction.
func (f Filter) And(other Filter) Filter { return And(f, other) }

// SortField orders query results by a single field, e.g. Asc("_createdAt").
type SortField map[string]string

// Asc sorts by field in ascending order.
func Asc(field string) SortField { return SortField{field: "asc"} }

// Desc sorts by field in descending order.
func Desc(field string) SortField { return SortField{field: "desc"} }

// Paging bounds the records returned by a find, as a half-open [From, To)
// window over the sorted result set.
type Paging struct {
	From int
	To   int
}

type queryRequest struct {
	Query []map[string]interface{} `json:"query"`
}

// buildQuery assembles a query endpoint body: the scoping prefix (list or
// get+list operators), then filter, sort and page/count operators.
func buildQuery(prefix []map[string]interface{}, filters Filter, sorts []SortField, paging *Paging, count bool) queryRequest {
	query := append([]map[string]interface{}{}, prefix...)

	if len(filters) != 0 {
		item := map[string]interface{}{"_name": "filter"}
		for op, expr := range filters {
			item[op] = expr
		}
		query = append(query, item)
	}
	if len(sorts) != 0 {
		query = append(query, map[string]interface{}{"_name": "sort", "_fields": sorts})
	}
	if count {
		query = append(query, map[string]interface{}{"_name": "count"})
	} else if paging != nil {
		query = append(query, map[string]interface{}{"_name": "page", "from": paging.From, "to": paging.To})
	}
	return queryRequest{Query: query}
}

func listQuery(name string) []map[string]interface{} {
	return []map[string]interface{}{{"_name": name}}
}

func caseScopedQuery(caseID, listName string) []map[string]interface{} {
	return []map[string]interface{}{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": listName},
	}
}
