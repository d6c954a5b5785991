package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFixture drops a raw document into the given fixture directory
func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(
		t,
		os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644),
	)
}
