package thehive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestFilterEq(t *testing.T) {
	assert.JSONEq(t,
		`{"_eq": {"_field": "title", "_value": "my case"}}`,
		marshalJSON(t, Eq("title", "my case")))
}

func TestFilterOrChaining(t *testing.T) {
	filter := Eq("title", "a").Or(Eq("title", "b"))
	assert.JSONEq(t, `{
		"_or": [
			{"_eq": {"_field": "title", "_value": "a"}},
			{"_eq": {"_field": "title", "_value": "b"}}
		]
	}`, marshalJSON(t, filter))
}

func TestFilterBetweenAndIn(t *testing.T) {
	assert.JSONEq(t,
		`{"_between": {"_field": "severity", "_from": 1, "_to": 3}}`,
		marshalJSON(t, Between("severity", 1, 3)))
	assert.JSONEq(t,
		`{"_in": {"_field": "status", "_values": ["New", "InProgress"]}}`,
		marshalJSON(t, In("status", "New", "InProgress")))
}

func TestFilterNot(t *testing.T) {
	assert.JSONEq(t,
		`{"_not": {"_eq": {"_field": "flag", "_value": true}}}`,
		marshalJSON(t, Not(Eq("flag", true))))
}

func TestBuildQueryWithAllOperators(t *testing.T) {
	req := buildQuery(
		listQuery("listCase"),
		Eq("title", "my case"),
		[]SortField{Asc("_createdAt"), Desc("number")},
		&Paging{From: 0, To: 10},
		false,
	)
	assert.JSONEq(t, `{
		"query": [
			{"_name": "listCase"},
			{"_name": "filter", "_eq": {"_field": "title", "_value": "my case"}},
			{"_name": "sort", "_fields": [{"_createdAt": "asc"}, {"number": "desc"}]},
			{"_name": "page", "from": 0, "to": 10}
		]
	}`, marshalJSON(t, req))
}

func TestBuildQueryCount(t *testing.T) {
	req := buildQuery(listQuery("listCase"), nil, nil, nil, true)
	assert.JSONEq(t, `{
		"query": [
			{"_name": "listCase"},
			{"_name": "count"}
		]
	}`, marshalJSON(t, req))
}

func TestBuildQueryCaseScoped(t *testing.T) {
	req := buildQuery(caseScopedQuery("case-1", "observables"), nil, nil, nil, false)
	assert.JSONEq(t, `{
		"query": [
			{"_name": "getCase", "idOrName": "case-1"},
			{"_name": "observables"}
		]
	}`, marshalJSON(t, req))
}
