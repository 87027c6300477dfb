package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintBuildData_Defaults(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)

	out := buf.String()
	require.Contains(t, out, "Build version: N/A")
	require.Contains(t, out, "Build date: N/A")
	require.Contains(t, out, "Build commit: N/A")
}

func TestPrintBuildData_Injected(t *testing.T) {
	oldV, oldD, oldC := buildVersion, buildDate, buildCommit
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = oldV, oldD, oldC })

	buildVersion, buildDate, buildCommit = "v1.2.3", "2026-08-01", "abc1234"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	out := buf.String()
	require.Contains(t, out, "Build version: v1.2.3")
	require.Contains(t, out, "Build date: 2026-08-01")
	require.Contains(t, out, "Build commit: abc1234")
}
