package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("storage:\n  backend: sqlite\nlog:\n  level: error\n"), 0o600))
	return []string{"--config", cfg, "--db", filepath.Join(dir, "careerpath.db")}
}

func execute(t *testing.T, base []string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, base...))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestToggleAndStatus(t *testing.T) {
	base := setupCLI(t)

	out, err := execute(t, base, "toggle", "phase", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Fase 1 completada")

	out, err = execute(t, base, "status", "--projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Fases completadas 1/")
	assert.Contains(t, out, "[✓]")
	assert.Contains(t, out, "sql-easy")

	out, err = execute(t, base, "toggle", "project", "sql-easy")
	require.NoError(t, err)
	assert.Contains(t, out, "Proyecto completado")
}

func TestToggleLockedProject(t *testing.T) {
	base := setupCLI(t)

	_, err := execute(t, base, "toggle", "project", "sql-medium")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completa 7 items más")
}

func TestToggleUnknownPhase(t *testing.T) {
	base := setupCLI(t)

	_, err := execute(t, base, "toggle", "phase", "99")
	require.Error(t, err)

	_, err = execute(t, base, "toggle", "phase", "uno")
	require.Error(t, err)
}

func TestResetClearsProgress(t *testing.T) {
	base := setupCLI(t)

	_, err := execute(t, base, "toggle", "phase", "1")
	require.NoError(t, err)

	out, err := execute(t, base, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progreso reiniciado")

	out, err = execute(t, base, "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "[✓]")
	assert.Contains(t, out, "0% completado")
}

func TestPlanListEmpty(t *testing.T) {
	base := setupCLI(t)

	out, err := execute(t, base, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans saved")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Año", truncate("Año nuevo", 3))
	assert.Equal(t, "ok", truncate("ok", 10))
}

func TestBuildVersion(t *testing.T) {
	assert.NotEmpty(t, buildVersion())

	old := version
	t.Cleanup(func() { version = old })
	version = "v1.2.0"
	assert.Equal(t, "v1.2.0", buildVersion())

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "careerpath v1.2.0 (go")
}
