package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// FloatArray scans a Postgres float8[] column (text form "{1.2,3}") into
// a []float64. JSON array form is accepted too since some raw queries
// select arrays through to_json.
type FloatArray []float64

func (a *FloatArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into FloatArray", src)
	}
	parsed, err := ParseFloatArray(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, f := range a {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (FloatArray) GormDataType() string { return "float8[]" }

func ParseFloatArray(s string) (FloatArray, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return FloatArray{}, nil
	}
	parts := strings.Split(s, ",")
	out := make(FloatArray, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, "null") || strings.EqualFold(p, "NULL") {
			out = append(out, 0)
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float array element %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}
