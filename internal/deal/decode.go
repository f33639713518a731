package deal

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/iwvelando/deal-analyzer/pkg/numeric"
	"github.com/mitchellh/mapstructure"
)

var (
	hookErrorPattern = regexp.MustCompile(`^error decoding '([^']*)': (.*)$`)
	typeErrorPattern = regexp.MustCompile(`^'([^']*)' (.*)$`)
)

// NumericDecodeHook coerces numeric-ish strings ("$299,900", "5.5%") into
// numbers and yes/no strings into booleans. Blank strings decode as missing.
// Integer fields reject fractional values rather than truncating them, and no
// numeric field accepts an infinite or NaN value.
func NumericDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		target := to
		pointer := false
		if target.Kind() == reflect.Ptr {
			target = target.Elem()
			pointer = true
		}

		switch from.Kind() {
		case reflect.String:
		case reflect.Float32, reflect.Float64:
			return checkFloat(target.Kind(), reflect.ValueOf(data).Float(), data)
		default:
			return data, nil
		}

		raw := strings.TrimSpace(reflect.ValueOf(data).String())
		switch {
		case isFloatKind(target.Kind()):
			if raw == "" && pointer {
				return nil, nil
			}
			return numeric.Parse(raw)
		case isIntKind(target.Kind()):
			if raw == "" && pointer {
				return nil, nil
			}
			return numeric.ParseInt(raw)
		case target.Kind() == reflect.Bool:
			if raw == "" && pointer {
				return nil, nil
			}
			switch strings.ToLower(raw) {
			case "y", "yes", "true", "t", "1", "on":
				return true, nil
			case "n", "no", "false", "f", "0", "off":
				return false, nil
			}
			return nil, fmt.Errorf("invalid boolean value %q", raw)
		}
		return data, nil
	}
}

// checkFloat vets a number that arrived already typed, as JSON and YAML
// numbers do.
func checkFloat(target reflect.Kind, value float64, data interface{}) (interface{}, error) {
	if !isFloatKind(target) && !isIntKind(target) {
		return data, nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("numeric value %v is not finite", value)
	}
	if isIntKind(target) && value != math.Trunc(value) {
		return nil, fmt.Errorf("numeric value %v is not a whole number", value)
	}
	return data, nil
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// DecodeInputs converts a loosely typed record (decoded JSON or YAML, form
// values, a scraper's output) into PropertyInputs. Unknown keys and values
// that cannot be coerced are reported together as ValidationErrors.
func DecodeInputs(raw map[string]interface{}) (PropertyInputs, error) {
	var inputs PropertyInputs
	err := decode(raw, &inputs)
	return inputs, err
}

// DecodeBorrower is DecodeInputs for borrower details.
func DecodeBorrower(raw map[string]interface{}) (Borrower, error) {
	var borrower Borrower
	err := decode(raw, &borrower)
	return borrower, err
}

func decode(raw map[string]interface{}, result interface{}) error {
	var metadata mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       NumericDecodeHook(),
		WeaklyTypedInput: true,
		Metadata:         &metadata,
		Result:           result,
	})
	if err != nil {
		return fmt.Errorf("failed to build input decoder: %w", err)
	}

	var problems ValidationErrors
	if err := decoder.Decode(raw); err != nil {
		var decodeErr *mapstructure.Error
		if !errors.As(err, &decodeErr) {
			return err
		}
		for _, message := range decodeErr.Errors {
			problems = append(problems, fieldErrorFromDecode(message))
		}
	}

	unused := append([]string(nil), metadata.Unused...)
	sort.Strings(unused)
	for _, key := range unused {
		problems.Add(key, "unknown field")
	}

	return problems.Err()
}

func fieldErrorFromDecode(message string) FieldError {
	if m := hookErrorPattern.FindStringSubmatch(message); m != nil {
		return FieldError{Field: m[1], Message: m[2]}
	}
	if m := typeErrorPattern.FindStringSubmatch(message); m != nil {
		return FieldError{Field: m[1], Message: m[2]}
	}
	return FieldError{Message: message}
}
