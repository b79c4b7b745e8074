package hivetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesFilterComparisons(t *testing.T) {
	doc := document{"title": "my case", "severity": float64(2), "_createdAt": int64(1700000000000)}

	assert.True(t, matchesFilter(doc, document{"_eq": map[string]interface{}{"_field": "title", "_value": "my case"}}))
	assert.False(t, matchesFilter(doc, document{"_eq": map[string]interface{}{"_field": "title", "_value": "other"}}))
	assert.True(t, matchesFilter(doc, document{"_ne": map[string]interface{}{"_field": "title", "_value": "other"}}))
	assert.True(t, matchesFilter(doc, document{"_like": map[string]interface{}{"_field": "title", "_value": "my"}}))
	assert.True(t, matchesFilter(doc, document{"_gt": map[string]interface{}{"_field": "severity", "_value": float64(1)}}))
	assert.False(t, matchesFilter(doc, document{"_gt": map[string]interface{}{"_field": "severity", "_value": float64(2)}}))
	assert.True(t, matchesFilter(doc, document{"_gte": map[string]interface{}{"_field": "severity", "_value": float64(2)}}))
	assert.True(t, matchesFilter(doc, document{"_contains": "title"}))
	assert.False(t, matchesFilter(doc, document{"_contains": "summary"}))
}

func TestMatchesFilterNumbersCompareAcrossGoTypes(t *testing.T) {
	// Stored documents mix decoded JSON floats with server-stamped ints.
	doc := document{"number": 3}
	assert.True(t, matchesFilter(doc, document{"_eq": map[string]interface{}{"_field": "number", "_value": float64(3)}}))
	assert.True(t, matchesFilter(doc, document{"_between": map[string]interface{}{"_field": "number", "_from": float64(1), "_to": float64(5)}}))
}

func TestMatchesFilterBooleanOperators(t *testing.T) {
	doc := document{"title": "my case", "status": "New"}

	or := document{"_or": []interface{}{
		map[string]interface{}{"_eq": map[string]interface{}{"_field": "title", "_value": "other"}},
		map[string]interface{}{"_eq": map[string]interface{}{"_field": "status", "_value": "New"}},
	}}
	assert.True(t, matchesFilter(doc, or))

	and := document{"_and": []interface{}{
		map[string]interface{}{"_eq": map[string]interface{}{"_field": "title", "_value": "my case"}},
		map[string]interface{}{"_eq": map[string]interface{}{"_field": "status", "_value": "Closed"}},
	}}
	assert.False(t, matchesFilter(doc, and))

	not := document{"_not": map[string]interface{}{"_eq": map[string]interface{}{"_field": "status", "_value": "Closed"}}}
	assert.True(t, matchesFilter(doc, not))
}

func TestMatchesFilterIn(t *testing.T) {
	doc := document{"status": "InProgress"}
	in := document{"_in": map[string]interface{}{"_field": "status", "_values": []interface{}{"New", "InProgress"}}}
	assert.True(t, matchesFilter(doc, in))
}

func TestSortDocuments(t *testing.T) {
	docs := []document{
		{"title": "b", "_createdAt": int64(3)},
		{"title": "a", "_createdAt": int64(1)},
		{"title": "a", "_createdAt": int64(2)},
	}

	sortDocuments(docs, []interface{}{
		map[string]interface{}{"title": "asc"},
		map[string]interface{}{"_createdAt": "desc"},
	})

	assert.Equal(t, int64(2), docs[0]["_createdAt"])
	assert.Equal(t, int64(1), docs[1]["_createdAt"])
	assert.Equal(t, "b", docs[2]["title"])
}

func TestSortDocumentsDefaultsToCreationOrder(t *testing.T) {
	docs := []document{
		{"_createdAt": int64(2)},
		{"_createdAt": int64(1)},
	}
	sortDocuments(docs, nil)
	assert.Equal(t, int64(1), docs[0]["_createdAt"])
}

func TestPageDocuments(t *testing.T) {
	docs := []document{{"n": 0}, {"n": 1}, {"n": 2}}

	paged := pageDocuments(docs, document{"from": float64(1), "to": float64(2)})
	assert.Len(t, paged, 1)
	assert.Equal(t, 1, paged[0]["n"])

	assert.Empty(t, pageDocuments(docs, document{"from": float64(5), "to": float64(9)}))
}
