package testutil

import (
	"os"
	"strings"
	"testing"
)

// GetEnvOrSkip returns the value of key and skips the test when it is empty.
func GetEnvOrSkip(t *testing.T, key string) string {
	t.Helper()
	return GetEnvsOrSkip(t, key)[0]
}

// GetEnvsOrSkip returns the values of keys in order. The test is skipped, naming every
// missing variable, when any of them is empty.
func GetEnvsOrSkip(t *testing.T, keys ...string) []string {
	t.Helper()
	values := make([]string, len(keys))
	var missing []string
	for i, key := range keys {
		values[i] = os.Getenv(key)
		if values[i] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		t.Skipf("%s not set, skipping test", strings.Join(missing, ", "))
	}
	return values
}
