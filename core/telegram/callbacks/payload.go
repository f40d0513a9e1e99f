package callbacks

import (
	"strconv"
	"strings"
)

// Int64 parses a decimal payload such as a provider id.
func Int64(payload string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
}

// Int parses a decimal payload such as a list index.
func Int(payload string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(payload))
}
