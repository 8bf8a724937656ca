package testutil_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/utils/testutil"
)

func TestGetEnvOrSkip(t *testing.T) {
	t.Setenv("LANGAUDIT_TEST_ENV", "value")
	gt.V(t, testutil.GetEnvOrSkip(t, "LANGAUDIT_TEST_ENV")).Equal("value")
}

func TestGetEnvsOrSkip(t *testing.T) {
	t.Setenv("LANGAUDIT_TEST_A", "a")
	t.Setenv("LANGAUDIT_TEST_B", "b")
	values := testutil.GetEnvsOrSkip(t, "LANGAUDIT_TEST_A", "LANGAUDIT_TEST_B")
	gt.V(t, values).Equal([]string{"a", "b"})
}
