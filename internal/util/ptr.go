package util

// Ptr returns a pointer to the given value.
// Used for the optional Scale and Bias fields of raw unit entries.
func Ptr[T any](v T) *T {
	return &v
}
