// Package signature infers a structural type signature from a JSON document:
// a flat mapping from path to type tag that summarizes the document's shape
// without its values.
package signature

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aviling/pulsecheck/internal/models"
)

// RootPath is the rendered form of the empty path, i.e. the document root.
const RootPath = "root"

// Signature is a mapping from structural path to type tag. Paths are unique
// by construction; the order in which they were emitted during extraction is
// preserved so rendered output is stable for a given document.
type Signature struct {
	paths []string
	tags  map[string]models.TypeTag
}

// New creates an empty Signature.
func New() *Signature {
	return &Signature{tags: make(map[string]models.TypeTag)}
}

// Tag returns the type tag recorded for path, and whether the path is present.
func (s *Signature) Tag(path string) (models.TypeTag, bool) {
	tag, ok := s.tags[path]
	return tag, ok
}

// Paths returns all recorded paths in emission order.
func (s *Signature) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of recorded paths.
func (s *Signature) Len() int {
	return len(s.paths)
}

// add records a path/tag pair. Paths cannot repeat during a normal walk, but
// if a document manufactures a collision (an object key spelled like an array
// marker), last write wins.
func (s *Signature) add(path string, tag models.TypeTag) {
	if _, exists := s.tags[path]; !exists {
		s.paths = append(s.paths, path)
	}
	s.tags[path] = tag
}

// Extract walks a JSON value and produces its type signature. It is total
// over well-formed JSON values; the only error case is a value outside the
// JSON model entirely, which indicates a caller bug. Extraction recurses as
// deep as the document nests, so stack depth is the caller's only bound.
func Extract(value models.JSONValue) (*Signature, error) {
	sig := New()
	if err := walk(value, "", sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// walk is the core recursive descent. path is the raw structural path, empty
// at the document root; rendering to RootPath happens at emission time.
func walk(value models.JSONValue, path string, sig *Signature) error {
	switch v := value.(type) {
	case nil:
		sig.add(render(path), models.TagNull)
	case bool:
		sig.add(render(path), models.TagBoolean)
	case string:
		sig.add(render(path), models.TagString)
	case json.Number:
		sig.add(render(path), models.TagNumber)
	case float64:
		// Callers that decoded without json.Number still get a number tag.
		sig.add(render(path), models.TagNumber)
	case models.JSONArray:
		sig.add(render(path), models.TagArray)
		if len(v) > 0 {
			// All elements collapse onto one path and only the first element
			// is inspected, so a heterogeneous array reports the first
			// element's shape.
			return walk(v[0], path+"[]", sig)
		}
	case models.JSONObject:
		sig.add(render(path), models.TagObject)

		// Iterate keys in sorted order so the signature is deterministic
		// regardless of map iteration order.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			if err := walk(v[key], childPath, sig); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unexpected json value type %T at %s", v, render(path))
	}
	return nil
}

// render converts a raw structural path into its mapping key form.
func render(path string) string {
	if path == "" {
		return RootPath
	}
	return path
}
