package utils

import "strconv"

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// ParseOptionalInt64 parses s when it is non-empty. An empty string yields nil.
func ParseOptionalInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := StrToInt64(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ParseOptionalBool parses s when it is non-empty. An empty string yields nil.
func ParseOptionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
