package utils

// StringSlice returns the string elements of a decoded JSON array. Values that
// are not arrays give nil; non-string elements are skipped.
func StringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
