package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsontree runs the CLI with args, feeding stdin when it is not empty
func jsontree(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_FileInput tests searching a file given as an argument
func TestCLI_FileInput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"name": "John Doe",
		"address": {
			"street": "123 Main St",
			"city": "Anytown",
			"zip": "12345"
		},
		"phones": [
			{"type": "home", "number": "555-1234"},
			{"type": "work", "number": "555-5678"}
		]
	}`
	jsonFile := filepath.Join(tempDir, "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	stdout, stderr, err := jsontree(t, "", "search", "--json", "555", jsonFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []any{"phones", float64(0)}, results[0]["path"])
	assert.Equal(t, "number", results[0]["key"])
	assert.Equal(t, "555-5678", results[1]["value"])
}

// TestCLI_StdinStdout tests formatting from stdin to stdout
func TestCLI_StdinStdout(t *testing.T) {
	stdout, stderr, err := jsontree(t, `{"name":"Jane Smith","age":25,"active":true}`, "format")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Equal(t, "{\n  \"name\": \"Jane Smith\",\n  \"age\": 25,\n  \"active\": true\n}\n", stdout)
}

// TestCLI_Tree tests the tree command with everything expanded
func TestCLI_Tree(t *testing.T) {
	stdout, stderr, err := jsontree(t, `[{"id": 1}, {"id": 2}]`, "tree", "--expand-all")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	expected := "" +
		"▾ $: [2 items]\n" +
		"  ▾ 0: {1 key}\n" +
		"      id: 1\n" +
		"  ▾ 1: {1 key}\n" +
		"      id: 2\n"
	assert.Equal(t, expected, stdout)
}

// TestCLI_Query tests JSONPath selection
func TestCLI_Query(t *testing.T) {
	stdout, stderr, err := jsontree(t, `{"items": [{"id": 1}, {"id": 2}]}`, "query", "$.items[*].id")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Equal(t, "$['items'][0]['id']\n1\n$['items'][1]['id']\n2\n", stdout)
}

// TestCLI_ConfigFile tests that a config file limits search results
func TestCLI_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".jsontree.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("search:\n  max_results: 1\n"), 0644))

	stdout, stderr, err := jsontree(t, `["a1", "a2", "a3"]`, "--config", configFile, "search", "a")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Len(t, strings.Split(strings.TrimRight(stdout, "\n"), "\n"), 1)
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	_, stderr, err := jsontree(t, `{"name": "Invalid JSON, "age": 30}`, "validate")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr, "JSON parsing error")
}

// TestCLI_FormatPassesInvalidThrough tests that format never fails on bad JSON
func TestCLI_FormatPassesInvalidThrough(t *testing.T) {
	input := `{"name": "Invalid JSON, "age": 30}`

	stdout, stderr, err := jsontree(t, input, "format")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, input, stdout)
}

// TestCLI_MissingFile tests the CLI with a file that does not exist
func TestCLI_MissingFile(t *testing.T) {
	_, stderr, err := jsontree(t, "", "tree", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Contains(t, stderr, "not found")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	stdout, _, err := jsontree(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0.1.0")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	for _, command := range []string{"format", "validate", "sample", "search", "tree", "query", "explore"} {
		assert.Contains(t, helpOutput, command)
	}
	assert.Contains(t, helpOutput, "--config")
	assert.Contains(t, helpOutput, "--debug")
	assert.Contains(t, helpOutput, "--verbose")
}
