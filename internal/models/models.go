package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// TypeTag is the structural classification assigned to a single location in
// a JSON document. It deliberately ignores values: "number" covers both ints
// and floats, "array" covers arrays of anything.
type TypeTag string

const (
	TagNull    TypeTag = "null"
	TagBoolean TypeTag = "boolean"
	TagNumber  TypeTag = "number"
	TagString  TypeTag = "string"
	TagArray   TypeTag = "array"
	TagObject  TypeTag = "object"
)
