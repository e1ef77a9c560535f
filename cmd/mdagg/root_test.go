package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ukFixture      = filepath.Join("..", "..", "testdata", "fixtures", "ukfederation.xml")
	edugainFixture = filepath.Join("..", "..", "testdata", "fixtures", "edugain.xml")
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_WritesAggregate(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "aggregate.xml")
	report := filepath.Join(dir, "report.json")

	stdout, _, err := execute(t, "run",
		"--mode", "avoid",
		"-i", ukFixture, "-i", edugainFixture,
		"-o", output, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(6 of 7 entities)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[??] Royal Academy of Music")

	var rep map[string]any
	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, "avoid", rep["mode"])
}

func TestRun_DryRunPrintsSummary(t *testing.T) {
	output := filepath.Join(t.TempDir(), "aggregate.xml")

	stdout, _, err := execute(t, "run", "--dry-run", "-o", output, ukFixture, edugainFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode: detect")
	assert.Contains(t, stdout, "entities=7 kept=1 dropped=6")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_VerboseShowsProgress(t *testing.T) {
	_, stderr, err := execute(t, "run", "--dry-run", "-v", "--keep-errors", ukFixture)
	require.NoError(t, err)
	assert.Contains(t, stderr, "RegistrationAuthorityCheck complete")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	abs := func(p string) string {
		a, err := filepath.Abs(p)
		require.NoError(t, err)
		return a
	}
	cfgPath := filepath.Join(dir, "mdagg.yml")
	output := filepath.Join(dir, "out.xml")
	cfg := "inputs:\n  - " + abs(ukFixture) + "\n  - " + abs(edugainFixture) + "\n" +
		"output: " + output + "\n" +
		"mode: avoid\n" +
		"authorityDisplayNames:\n  https://www.wayf.dk: DK\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, _, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DK] Royal Academy of Music")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := execute(t, "run", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input metadata files")

	_, _, err = execute(t, "run", "--dry-run", "--mode", "resolve", ukFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `mode "resolve"`)
}

func TestCheck(t *testing.T) {
	stdout, _, err := execute(t, "check", ukFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "entities=3 kept=3")

	stdout, _, err = execute(t, "check", ukFixture, edugainFixture)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, stdout, "clashes with https://idp.example.dk/saml")
}

func TestDiagram(t *testing.T) {
	stdout, _, err := execute(t, "diagram", ukFixture, edugainFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "graph LR\n")
	assert.Contains(t, stdout, `subgraph A0["http://ukfederation.org.uk"]`)
	assert.Contains(t, stdout, `|"Royal Academy of Music"|`)
	assert.NotContains(t, stdout, "sp.example.ac.uk")

	_, _, err = execute(t, "diagram")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "created ./mdagg.yml")
	assert.Contains(t, stdout, "created .mcp.json")
	assert.FileExists(t, filepath.Join(dir, "mdagg.yml"))

	raw, err := os.ReadFile(filepath.Join(dir, ".mcp.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"serve-mcp"`)

	stdout, _, err = execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "skipped ./mdagg.yml")
	assert.Contains(t, stdout, "skipped .mcp.json mdagg entry")
}

func TestMergeMCPConfig_KeepsOtherServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mcp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers":{"other":{"command":"other"}}}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, mergeMCPConfig(&out, path, false))
	assert.Contains(t, out.String(), "updated .mcp.json")

	var cfg mcpConfig
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &cfg))
	assert.Contains(t, cfg.MCPServers, "other")
	assert.Contains(t, cfg.MCPServers, "mdagg")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version)
}
