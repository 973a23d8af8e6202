package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexFloat accepts a JSON number or numeric string. Anything that does not
// parse becomes 0; decoding never fails.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat(parseNumber(b))
	return nil
}

// FlexInt is FlexFloat truncated to an integer. Values outside the int
// range become 0 like any other unusable input.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	v := parseNumber(b)
	if v >= float64(math.MaxInt) || v < float64(math.MinInt) {
		v = 0
	}
	*i = FlexInt(int(v))
	return nil
}

// FlexBool accepts booleans, "true"/"false" style strings and numbers.
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "true":
		*v = true
	case strings.HasPrefix(s, `"`):
		var str string
		_ = json.Unmarshal(b, &str)
		parsed, _ := strconv.ParseBool(strings.TrimSpace(str))
		*v = FlexBool(parsed)
	default:
		*v = parseNumber(b) != 0
	}
	return nil
}

// FlexString accepts a string or a bare JSON number (kept as written).
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case strings.HasPrefix(raw, `"`):
		var str string
		_ = json.Unmarshal(b, &str)
		*s = FlexString(str)
	case raw == "null" || raw == "true" || raw == "false":
		*s = ""
	default:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			*s = FlexString(raw)
		} else {
			*s = ""
		}
	}
	return nil
}

// FlexList accepts an array or a single string. Elements are read like
// FlexString; anything else yields an empty list.
type FlexList []string

func (l *FlexList) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if !strings.HasPrefix(raw, "[") {
		var s FlexString
		_ = s.UnmarshalJSON(b)
		if strings.TrimSpace(string(s)) == "" {
			*l = nil
		} else {
			*l = FlexList{string(s)}
		}
		return nil
	}

	var items []FlexString
	if err := json.Unmarshal(b, &items); err != nil {
		*l = nil
		return nil
	}
	out := make(FlexList, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	*l = out
	return nil
}

func parseNumber(b []byte) float64 {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return 0
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
