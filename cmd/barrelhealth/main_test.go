package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/VisEntities/BarrelHealth/config"
	"github.com/VisEntities/BarrelHealth/rules"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	assert.NilError(t, cmd.Execute())
	return out.String()
}

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config", "BarrelHealth.json")
	t.Setenv("BARREL_HEALTH_CONFIG_PATH", path)
	t.Setenv("BARREL_HEALTH_LOG_LEVEL", "error")
	return path
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := useTempConfig(t)

	out := runCmd(t, "config", "init")
	assert.Check(t, is.Contains(out, "Wrote default configuration"))

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	doc, err := config.Decode(data)
	assert.NilError(t, err)
	assert.DeepEqual(t, config.Default(), doc)
}

func TestConfigShowMigratesOldDocument(t *testing.T) {
	path := useTempConfig(t)
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NilError(t, os.WriteFile(path, []byte(`{"Version":"0.1.0","Barrel Groups":[]}`), 0o600))

	out := runCmd(t, "config", "show")
	doc, err := config.Decode([]byte(out))
	assert.NilError(t, err)
	assert.DeepEqual(t, config.Default(), doc)
}

func TestSchemaCommand(t *testing.T) {
	useTempConfig(t)
	out := runCmd(t, "schema")
	assert.Check(t, is.Contains(out, "Barrel Groups"))
}

func TestSimulate(t *testing.T) {
	useTempConfig(t)
	out := runCmd(t, "simulate", "--containers", "2", "--frame-rate", "1000", "--embedded-redis")

	want := map[string]string{
		rules.PrefabLootBarrel1:        "35.0",
		rules.PrefabLootBarrel2:        "50.0",
		rules.PrefabRadtownLootBarrel1: "50.0",
		rules.PrefabRadtownLootBarrel2: "35.0",
		rules.PrefabRadtownOilBarrel:   "50.0",
		crateBasic:                     "100.0",
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, len(want)+1, len(lines))
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		assert.Equal(t, 4, len(fields), line)
		assert.Equal(t, "3", fields[1], line)
		assert.Equal(t, want[fields[0]], fields[2], line)
		assert.Equal(t, want[fields[0]], fields[3], line)
	}
}

func TestSimulateRejectsBadFrameRate(t *testing.T) {
	useTempConfig(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"simulate", "--frame-rate", "0", "--embedded-redis"})
	assert.ErrorContains(t, cmd.Execute(), "frame rate must be positive")
}
