package jobad

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// object is a decoded JSON object. Lookups never panic: a key is either
// present, yielding its value, or absent, yielding a MissingField failure.
type object map[string]any

func parseObject(body []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %s, want object", jsonType(root))
	}
	return obj, nil
}

func (o object) lookup(key string) (any, bool) {
	value, ok := o[key]
	return value, ok
}

func (o object) child(prefix, key string) (object, *Failure) {
	path := join(prefix, key)
	value, ok := o.lookup(key)
	if !ok {
		return nil, missing(path)
	}
	nested, ok := value.(map[string]any)
	if !ok {
		return nil, &Failure{Kind: KindFieldMismatch, Field: path, Message: "want object, got " + jsonType(value)}
	}
	return nested, nil
}

// str returns the string at key. JSON null yields "" with null set, which
// callers treat as blank.
func (o object) str(prefix, key string) (value string, null bool, failure *Failure) {
	path := join(prefix, key)
	raw, ok := o.lookup(key)
	if !ok {
		return "", false, missing(path)
	}
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, false, nil
	default:
		return "", false, &Failure{Kind: KindFieldMismatch, Field: path, Message: "want string, got " + jsonType(raw)}
	}
}

func (o object) boolean(prefix, key string) (bool, *Failure) {
	path := join(prefix, key)
	raw, ok := o.lookup(key)
	if !ok {
		return false, missing(path)
	}
	v, ok := raw.(bool)
	if !ok {
		return false, &Failure{Kind: KindFieldMismatch, Field: path, Message: "want boolean, got " + jsonType(raw)}
	}
	return v, nil
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
