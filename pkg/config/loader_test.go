package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
options:
  initialDelay: 10ms
  replayInterval: 50
  verbose: false
  namespace: /v1/
handlers:
  - url: users/*
    interval: 20ms
    responses:
      - {name: user, id: "1", data: {id: 1}}
      - {name: user, id: "2", data: {id: 2}}
  - regex: "^/v1/orders/\\d+$"
    generator:
      count: 2
      name: '"order"'
      data: '{"n": index}'
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile_ValidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "handlers.yaml", sampleYAML)

	f, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Source)

	require.NotNil(t, f.Options)
	assert.Equal(t, 10*time.Millisecond, f.Options.InitialDelay.Std())
	assert.Equal(t, 50*time.Millisecond, f.Options.ReplayInterval.Std())
	require.NotNil(t, f.Options.Verbose)
	assert.False(t, *f.Options.Verbose)
	assert.Equal(t, "/v1/", f.Options.Namespace)

	require.Len(t, f.Handlers, 2)
	assert.Equal(t, "users/*", f.Handlers[0].URL)
	assert.Equal(t, 20*time.Millisecond, f.Handlers[0].Interval.Std())
	require.Len(t, f.Handlers[0].Responses, 2)
	assert.Equal(t, "user", f.Handlers[0].Responses[0].Name)
	assert.Equal(t, "1", f.Handlers[0].Responses[0].ID)
	assert.Equal(t, map[string]interface{}{"id": 1}, f.Handlers[0].Responses[0].Data)

	assert.Equal(t, `^/v1/orders/\d+$`, f.Handlers[1].Regex)
	require.NotNil(t, f.Handlers[1].Generator)
	assert.Equal(t, 2, f.Handlers[1].Generator.Count)
}

func TestLoadFromFile_ValidJSON(t *testing.T) {
	content := `{
		"handlers": [
			{"url": "/feed", "interval": "5ms", "responses": [{"name": "a", "data": {"x": true}}]}
		]
	}`
	path := writeFile(t, t.TempDir(), "handlers.json", content)

	f, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Nil(t, f.Options)
	require.Len(t, f.Handlers, 1)
	assert.Equal(t, 5*time.Millisecond, f.Handlers[0].Interval.Std())
	assert.Equal(t, map[string]interface{}{"x": true}, f.Handlers[0].Responses[0].Data)
}

func TestLoadFromFile_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.json", `{ invalid json }`)

	f, err := LoadFromFile(path)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.yaml", "handlers: [unclosed")

	f, err := LoadFromFile(path)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	f, err := LoadFromFile("/nonexistent/path/handlers.yaml")
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromFile_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	f, err := LoadFromFile(path)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadFromFile_Directory(t *testing.T) {
	f, err := LoadFromFile(t.TempDir())
	assert.Nil(t, f)
	assert.ErrorContains(t, err, "is a directory")
}

func TestLoadGlob_MergesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/two.yaml", `
options: {namespace: /second/}
handlers:
  - url: /b
    responses: []
`)
	writeFile(t, dir, "a/one.yaml", `
options: {namespace: /first/}
handlers:
  - url: /a
    responses: []
`)
	writeFile(t, dir, "a/ignored.txt", "not yaml")

	f, err := LoadGlob(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Handlers, 2)
	assert.Equal(t, "/a", f.Handlers[0].URL)
	assert.Equal(t, "/b", f.Handlers[1].URL)
	assert.Equal(t, "/first/", f.Options.Namespace)
}

func TestLoadGlob_NoMatches(t *testing.T) {
	_, err := LoadGlob(filepath.Join(t.TempDir(), "*.yaml"))
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestLoad_DispatchesOnPattern(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.yml", "handlers:\n  - url: /x\n    responses: []\n")

	single, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, single.Source)

	multi, err := Load(filepath.Join(dir, "*.yml"))
	require.NoError(t, err)
	assert.Len(t, multi.Handlers, 1)
}

func TestToYAML_RoundTrip(t *testing.T) {
	f, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := ToYAML(f)
	require.NoError(t, err)

	again, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, f.Options, again.Options)
	assert.Equal(t, f.Handlers, again.Handlers)

	_, err = ToYAML(nil)
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	f, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := ToJSON(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"replayInterval": "50ms"`)

	again, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Len(t, again.Handlers, 2)
}

func TestDuration_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("handlers:\n  - url: /x\n    interval: soon\n    responses: []\n"))
	assert.ErrorIs(t, err, ErrSchema)
}
