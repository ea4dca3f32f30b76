// Package coerce converts raw editor input into typed JSON scalars and back.
//
// The declared target type, not the shape of the text, decides how input is
// interpreted: "42" coerced to string stays the string "42".
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
)

// Type is the scalar type a value is coerced to.
type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Boolean Type = "boolean"
	Null    Type = "null"
)

// ParseType maps a type name to a Type.
func ParseType(name string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(name))); t {
	case String, Number, Boolean, Null:
		return t, nil
	}
	return "", errors.NewValidationError(fmt.Sprintf("Unknown value type %q", name))
}

// TypeOf returns the scalar Type of v. Containers report false.
func TypeOf(v models.JSONValue) (Type, bool) {
	switch models.KindOf(v) {
	case models.KindNull:
		return Null, true
	case models.KindBoolean:
		return Boolean, true
	case models.KindNumber:
		return Number, true
	case models.KindString:
		return String, true
	}
	return "", false
}

var jsonNumberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Coercer converts raw input. With Strict set, input that is not a number
// fails validation instead of becoming 0.
type Coercer struct {
	Strict bool
}

// Coerce converts raw to t using the lenient rules.
func Coerce(raw interface{}, t Type) (models.JSONValue, error) {
	return Coercer{}.Coerce(raw, t)
}

// Coerce converts raw to t.
func (c Coercer) Coerce(raw interface{}, t Type) (models.JSONValue, error) {
	switch t {
	case Null:
		return nil, nil
	case Boolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			return v == "true", nil
		}
		return false, nil
	case String:
		return Stringify(raw), nil
	case Number:
		if n, ok := toNumber(raw); ok {
			return n, nil
		}
		if c.Strict {
			return nil, errors.NewValidationError("Value must be a valid number")
		}
		return json.Number("0"), nil
	}
	return nil, errors.NewValidationError(fmt.Sprintf("Unknown value type %q", string(t)))
}

func toNumber(raw interface{}) (json.Number, bool) {
	switch v := raw.(type) {
	case json.Number:
		return toNumber(string(v))
	case int:
		return json.Number(strconv.Itoa(v)), true
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), true
	case float64:
		return formatFloat(v)
	case bool:
		// matches Number(true) in the viewer
		if v {
			return json.Number("1"), true
		}
		return json.Number("0"), true
	case string:
		s := strings.TrimSpace(v)
		if jsonNumberRegex.MatchString(s) {
			return json.Number(s), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return formatFloat(f)
	}
	return "", false
}

func formatFloat(f float64) (json.Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), true
}

// Stringify renders v for an editable text field.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case string:
		return val
	case models.JSONObject, models.JSONArray:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	default:
		return fmt.Sprint(val)
	}
}
