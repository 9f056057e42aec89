//go:build !libpostal

package postal

// Available reports whether libpostal is linked in
func Available() bool { return false }

// Parse needs libpostal; this build returns ErrUnavailable
func Parse(raw string) ([]Component, error) {
	return nil, ErrUnavailable
}

// Expand needs libpostal; this build returns ErrUnavailable
func Expand(raw string) ([]string, error) {
	return nil, ErrUnavailable
}
