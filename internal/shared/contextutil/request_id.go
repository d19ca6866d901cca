package contextutil

// GetKey exposes the raw request id key for middleware that needs to mirror
// it into framework specific stores.
func GetKey() string {
	return string(requestIDKey)
}
