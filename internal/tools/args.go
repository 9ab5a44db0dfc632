package tools

// Argument extraction helpers shared by tool handlers. JSON decoding
// hands every number over as float64 and every value as any; these
// normalize without panicking on the wrong type.

// StringArg returns args[key] as a string, or "".
func StringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// IntArg returns args[key] as an int, accepting float64 (the JSON
// number type) or int. Returns 0 when absent or mistyped.
func IntArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// BoolArg returns args[key] as a bool, or false.
func BoolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
