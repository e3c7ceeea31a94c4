package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgYAML = `
Organization:
  displayFields: [name]
  fields:
    id: {type: integer, isPrimary: true}
    name: {type: text}
OrganizationPerson:
  fields:
    id: {type: integer, isPrimary: true}
    orgId: {type: integer, relation: Organization, arrayName: member}
    role: {type: text}
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunSingle(t *testing.T) {
	path := writeSchema(t, orgYAML)
	out := t.TempDir()

	code, stdout, stderr := runCLI(t, "-schema", path, "-out", out, "Organization")
	require.Equal(t, exitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, `<section class="admin-record" data-table="Organization">`))
	assert.Contains(t, stdout, "{{#member}}")

	data, err := os.ReadFile(filepath.Join(out, "organization.section.mustache"))
	require.NoError(t, err)
	assert.Equal(t, stdout, string(data))

	code, stdout, _ = runCLI(t, "-schema", path, "-out", out, "-depth", "0", "-header", "generated", "OrganizationPerson", "page")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "{{! generated }}\n<h1"))
	assert.NotContains(t, stdout, "{{#org}}")
	assert.FileExists(t, filepath.Join(out, "organizationperson.page.mustache"))
}

func TestRunAll(t *testing.T) {
	path := writeSchema(t, orgYAML)
	out := filepath.Join(t.TempDir(), "nested", "templates")

	code, stdout, stderr := runCLI(t, "-schema", path, "-out", out, "-all")
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	for _, name := range []string{
		"organization.section.mustache",
		"organization.page.mustache",
		"organizationperson.section.mustache",
		"organizationperson.page.mustache",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestRunEnvironment(t *testing.T) {
	out := t.TempDir()
	t.Setenv("ADMINC_SCHEMA", writeSchema(t, orgYAML))
	t.Setenv("ADMINC_OUT", out)
	t.Setenv("ADMINC_DEPTH", "0")

	code, stdout, stderr := runCLI(t, "OrganizationPerson")
	require.Equal(t, exitOK, code, stderr)
	assert.NotContains(t, stdout, "{{#org}}")
	assert.FileExists(t, filepath.Join(out, "organizationperson.section.mustache"))

	code, stdout, _ = runCLI(t, "-depth", "1", "OrganizationPerson")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "{{#org}}", "flags override the environment")
}

func TestRunFailures(t *testing.T) {
	path := writeSchema(t, orgYAML)

	t.Run("unknown table", func(t *testing.T) {
		out := t.TempDir()
		code, stdout, stderr := runCLI(t, "-schema", path, "-out", out, "Nope")
		assert.Equal(t, exitError, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, `unknown table \"Nope\"`)
		assert.NoFileExists(t, filepath.Join(out, "nope.section.mustache"))
	})

	t.Run("missing schema", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-schema", filepath.Join(t.TempDir(), "none.yaml"), "Organization")
		assert.Equal(t, exitError, code)
		assert.Contains(t, stderr, "cannot load schema")
	})

	t.Run("broken relation", func(t *testing.T) {
		path := writeSchema(t, `
Track:
  fields:
    albumId: {type: integer, relation: Album}
`)
		code, _, stderr := runCLI(t, "-schema", path, "-out", t.TempDir(), "-all")
		assert.Equal(t, exitError, code)
		assert.Contains(t, stderr, "schema integrity error")
	})
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no table", nil, exitUsage},
		{"bad context", []string{"Organization", "modal"}, exitUsage},
		{"too many arguments", []string{"Organization", "page", "extra"}, exitUsage},
		{"all with table", []string{"-all", "Organization"}, exitUsage},
		{"negative depth", []string{"-depth", "-1", "Organization"}, exitUsage},
		{"unknown flag", []string{"-nope"}, exitUsage},
		{"bad log level", []string{"-log-level", "loud", "Organization"}, exitUsage},
		{"bad header", []string{"-header", "{{x", "Organization"}, exitUsage},
		{"empty output directory", []string{"-out", "", "Organization"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, tt.args...)
			assert.Equal(t, tt.want, code)
			assert.Empty(t, stdout)
		})
	}

	t.Run("header error", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-header", "{{x", "Organization")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, `config error for "Header"`)
	})

	t.Run("bad environment", func(t *testing.T) {
		t.Setenv("ADMINC_DEPTH", "deep")
		code, _, stderr := runCLI(t, "Organization")
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr, "environment")
	})
}

func TestRunWatch(t *testing.T) {
	path := writeSchema(t, orgYAML)
	out := t.TempDir()
	target := filepath.Join(out, "organization.page.mustache")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stdout, stderr bytes.Buffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-schema", path, "-out", out, "-watch", "Organization", "page"}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	changed := strings.Replace(orgYAML, "Organization:\n", "Organization:\n  label: Company\n", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(target)
		return err == nil && strings.Contains(string(data), "Company")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, stdout.String(), `<h1 class="admin-title">Company</h1>`)
}
