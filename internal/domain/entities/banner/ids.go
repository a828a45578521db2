package banner

import "github.com/oklog/ulid/v2"

// NewID returns a fresh, sortable identifier for banners and elements.
func NewID() string {
	return ulid.Make().String()
}
