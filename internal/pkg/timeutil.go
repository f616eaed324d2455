package pkg

import "time"

// ParseTime parses the RFC3339 timestamps used on the API boundary.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
