package types

import (
	"strconv"

	"github.com/bytedance/sonic"
)

// scalarString renders a decoded JSON value as the string a form would have sent.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := sonic.ConfigStd.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// flexString accepts any JSON value for a string field.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := sonic.ConfigStd.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexString(scalarString(v))
	return nil
}

// flexBool accepts true/false as JSON booleans, strings or 0/1. Anything
// else leaves it unset so the field keeps its default.
type flexBool struct {
	set   bool
	value bool
}

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := sonic.ConfigStd.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(scalarString(v))
	if err != nil {
		return nil
	}
	f.set, f.value = true, b
	return nil
}

func (f flexBool) or(def bool) bool {
	if !f.set {
		return def
	}
	return f.value
}
