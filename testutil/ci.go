package testutil

import (
	"os"
	"testing"
)

const envUseCI = "MDHASH_CI"

// SkipCI skips long-running tests unless MDHASH_CI is set.
func SkipCI(t testing.TB) {
	if os.Getenv(envUseCI) == "" {
		t.Skip("Skip MDHASH CI")
	}
}
