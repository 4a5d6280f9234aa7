package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/aviling/pulsecheck/internal/errors"
	"github.com/aviling/pulsecheck/internal/models"
)

// Parse decodes a single JSON document from an io.Reader into a
// models.JSONValue tree. Numbers are kept as json.Number so the signature
// extractor never loses the distinction between ints and floats.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) {
			// Decode returns io.EOF for an empty (or whitespace-only) stream.
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.As(err, &unmarshalTypeError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON type error at offset %d for type %s", unmarshalTypeError.Offset, unmarshalTypeError.Type),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Check for trailing data after the first JSON value. decoder.More()
	// reports true if anything other than whitespace follows, but a second
	// Decode distinguishes stray whitespace from an actual second value.
	if decoder.More() {
		var trailingValue interface{}
		if err := decoder.Decode(&trailingValue); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return normalizeJSONValue(rootValue), nil
}

// normalizeJSONValue converts raw decoded types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.JSONValue, error) {
	// An empty string reader gives io.EOF to Decode, but a string of only
	// spaces may not, so trim up front for a precise error.
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewParsingError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseBytes parses JSON from a byte slice
func ParseBytes(data []byte) (models.JSONValue, error) {
	return ParseString(string(data))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.JSONValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewParsingError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewParsingError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	return Parse(file)
}
