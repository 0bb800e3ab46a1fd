// Package query builds the JSON encoded query strings accepted by list
// endpoints. Builders panic on values that cannot be encoded as JSON.
package query

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// build panics when values cannot be encoded as JSON, as with a func or a
// channel. Setting strings on the fixed top-level paths does not fail.
func build(method, attribute string, values interface{}) string {
	q, _ := sjson.Set("", "method", method)
	if attribute != "" {
		q, _ = sjson.Set(q, "attribute", attribute)
	}
	if values != nil {
		var err error
		if q, err = sjson.Set(q, "values", values); err != nil {
			panic(fmt.Sprintf("query %s: encode values: %s", method, err))
		}
	}
	return q
}

func list(v interface{}) []interface{} {
	if items, ok := v.([]interface{}); ok {
		return items
	}
	return []interface{}{v}
}

// Equal matches documents whose attribute equals value, or any of value
// when value is a []interface{}.
func Equal(attribute string, value interface{}) string {
	return build("equal", attribute, list(value))
}

// NotEqual matches documents whose attribute differs from value.
func NotEqual(attribute string, value interface{}) string {
	return build("notEqual", attribute, list(value))
}

// LessThan matches documents whose attribute is lower than value.
func LessThan(attribute string, value interface{}) string {
	return build("lessThan", attribute, list(value))
}

// LessThanEqual matches documents whose attribute is at most value.
func LessThanEqual(attribute string, value interface{}) string {
	return build("lessThanEqual", attribute, list(value))
}

// GreaterThan matches documents whose attribute is greater than value.
func GreaterThan(attribute string, value interface{}) string {
	return build("greaterThan", attribute, list(value))
}

// GreaterThanEqual matches documents whose attribute is at least value.
func GreaterThanEqual(attribute string, value interface{}) string {
	return build("greaterThanEqual", attribute, list(value))
}

// Search runs a full text search on attribute.
func Search(attribute, value string) string {
	return build("search", attribute, []string{value})
}

// IsNull matches documents whose attribute is null.
func IsNull(attribute string) string {
	return build("isNull", attribute, nil)
}

// IsNotNull matches documents whose attribute is set.
func IsNotNull(attribute string) string {
	return build("isNotNull", attribute, nil)
}

// Between matches documents whose attribute lies in [start, end].
func Between(attribute string, start, end interface{}) string {
	return build("between", attribute, []interface{}{start, end})
}

// StartsWith matches string attributes with the given prefix.
func StartsWith(attribute, value string) string {
	return build("startsWith", attribute, []string{value})
}

// EndsWith matches string attributes with the given suffix.
func EndsWith(attribute, value string) string {
	return build("endsWith", attribute, []string{value})
}

// Select limits the returned attributes.
func Select(attributes []string) string {
	return build("select", "", attributes)
}

// OrderAsc sorts results by attribute, ascending.
func OrderAsc(attribute string) string {
	return build("orderAsc", attribute, nil)
}

// OrderDesc sorts results by attribute, descending.
func OrderDesc(attribute string) string {
	return build("orderDesc", attribute, nil)
}

// CursorBefore returns results before the document with the given id.
func CursorBefore(documentID string) string {
	return build("cursorBefore", "", []string{documentID})
}

// CursorAfter returns results after the document with the given id.
func CursorAfter(documentID string) string {
	return build("cursorAfter", "", []string{documentID})
}

// Limit caps the number of results.
func Limit(limit int) string {
	return build("limit", "", []int{limit})
}

// Offset skips the first offset results.
func Offset(offset int) string {
	return build("offset", "", []int{offset})
}
