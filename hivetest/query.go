package hivetest

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// POST /api/v1/query implements enough of the search language for the client
// surface: list and case-scoped sources followed by filter, sort, page and
// count operators.
func (s *Server) query(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Query []document `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Query) == 0 {
		s.writeError(w, http.StatusBadRequest, "InvalidFormatError", "malformed query")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, rest, ok := s.queryDataset(body.Query)
	if !ok {
		s.writeError(w, http.StatusNotFound, "NotFoundError", "unknown query source")
		return
	}

	for _, op := range rest {
		name, _ := op["_name"].(string)
		switch name {
		case "filter":
			docs = filterDocuments(docs, op)
		case "sort":
			fields, _ := op["_fields"].([]interface{})
			sortDocuments(docs, fields)
		case "page":
			docs = pageDocuments(docs, op)
		case "count":
			s.writeJSON(w, http.StatusOK, len(docs))
			return
		default:
			s.writeError(w, http.StatusBadRequest, "InvalidFormatError", "unknown query operator "+name)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, docs)
}

// queryDataset resolves the scoping prefix of a query into its initial
// dataset and the remaining operators.
func (s *Server) queryDataset(query []document) ([]document, []document, bool) {
	switch query[0]["_name"] {
	case "listCase":
		return allDocuments(s.cases), query[1:], true
	case "listAlert":
		return allDocuments(s.alerts), query[1:], true
	case "listObservable":
		return allDocuments(s.observables), query[1:], true
	case "listTask":
		return allDocuments(s.tasks), query[1:], true
	case "getCase":
		caseID, _ := query[0]["idOrName"].(string)
		if _, ok := s.cases[caseID]; !ok || len(query) < 2 {
			return nil, nil, false
		}
		switch query[1]["_name"] {
		case "observables":
			return s.collect(s.observables, caseID), query[2:], true
		case "tasks":
			return s.collect(s.tasks, caseID), query[2:], true
		case "attachments":
			return s.collect(s.attachments, caseID), query[2:], true
		case "shares":
			return s.collect(s.shares, caseID), query[2:], true
		}
	}
	return nil, nil, false
}

func allDocuments(store map[string]document) []document {
	docs := []document{}
	for _, doc := range store {
		docs = append(docs, doc)
	}
	sortDocuments(docs, nil)
	return docs
}

func filterDocuments(docs []document, filter document) []document {
	out := []document{}
	for _, doc := range docs {
		if matchesFilter(doc, filter) {
			out = append(out, doc)
		}
	}
	return out
}

// matchesFilter evaluates a single-operator filter node against doc.
func matchesFilter(doc document, node document) bool {
	for op, expr := range node {
		if op == "_name" {
			continue
		}
		return matchesOperator(doc, op, expr)
	}
	return true
}

func matchesOperator(doc document, op string, expr interface{}) bool {
	switch op {
	case "_and":
		for _, sub := range toNodes(expr) {
			if !matchesFilter(doc, sub) {
				return false
			}
		}
		return true
	case "_or":
		for _, sub := range toNodes(expr) {
			if matchesFilter(doc, sub) {
				return true
			}
		}
		return false
	case "_not":
		sub, _ := expr.(map[string]interface{})
		return !matchesFilter(doc, sub)
	case "_contains":
		field, _ := expr.(string)
		_, ok := doc[field]
		return ok
	case "_between":
		crit, _ := expr.(map[string]interface{})
		field, _ := crit["_field"].(string)
		value, okValue := toFloat(doc[field])
		from, okFrom := toFloat(crit["_from"])
		to, okTo := toFloat(crit["_to"])
		return okValue && okFrom && okTo && value >= from && value < to
	case "_in":
		crit, _ := expr.(map[string]interface{})
		field, _ := crit["_field"].(string)
		values, _ := crit["_values"].([]interface{})
		for _, v := range values {
			if equalValues(doc[field], v) {
				return true
			}
		}
		return false
	}

	crit, _ := expr.(map[string]interface{})
	field, _ := crit["_field"].(string)
	value := crit["_value"]
	switch op {
	case "_eq":
		return equalValues(doc[field], value)
	case "_ne":
		return !equalValues(doc[field], value)
	case "_like":
		haystack, _ := doc[field].(string)
		needle, _ := value.(string)
		return strings.Contains(haystack, strings.Trim(needle, "*"))
	case "_gt", "_gte", "_lt", "_lte":
		a, okA := toFloat(doc[field])
		b, okB := toFloat(value)
		if !okA || !okB {
			return false
		}
		switch op {
		case "_gt":
			return a > b
		case "_gte":
			return a >= b
		case "_lt":
			return a < b
		default:
			return a <= b
		}
	}
	return false
}

func toNodes(expr interface{}) []document {
	raw, _ := expr.([]interface{})
	nodes := make([]document, 0, len(raw))
	for _, item := range raw {
		if node, ok := item.(map[string]interface{}); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// sortDocuments orders docs by the given sort specs, falling back to
// creation order when fields is empty.
func sortDocuments(docs []document, fields []interface{}) {
	sort.SliceStable(docs, func(i, j int) bool {
		if len(fields) == 0 {
			return compareValues(docs[i]["_createdAt"], docs[j]["_createdAt"]) < 0
		}
		for _, raw := range fields {
			spec, _ := raw.(map[string]interface{})
			for field, rawDir := range spec {
				dir, _ := rawDir.(string)
				c := compareValues(docs[i][field], docs[j][field])
				if c == 0 {
					continue
				}
				if dir == "desc" {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
}

func pageDocuments(docs []document, op document) []document {
	from, _ := toFloat(op["from"])
	to, _ := toFloat(op["to"])
	start, end := int(from), int(to)
	if start < 0 {
		start = 0
	}
	if end > len(docs) || end == 0 {
		end = len(docs)
	}
	if start >= end {
		return []document{}
	}
	return docs[start:end]
}

// equalValues compares two JSON-sourced values; numbers compare by value
// regardless of the Go type they were stamped with.
func equalValues(a, b interface{}) bool {
	if fa, okA := toFloat(a); okA {
		if fb, okB := toFloat(b); okB {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b interface{}) int {
	if fa, okA := toFloat(a); okA {
		if fb, okB := toFloat(b); okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	sa, _ := a.(string)
	sb, _ := b.(string)
	return strings.Compare(sa, sb)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
