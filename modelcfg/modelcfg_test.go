package modelcfg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptic-labs/brainkit/modelcfg"
)

const sampleConfig = `
default_model = "llama3.2"

[models."llama3.2"]
temperature = 0.7
max_tokens = 2048
context_window = 8192
native_tools = true

[models."deepseek-r1"]
native_tools = false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	table, err := modelcfg.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", table.DefaultModel())
	assert.ElementsMatch(t, []string{"llama3.2", "deepseek-r1"}, table.Models())

	o, ok := table.Lookup("llama3.2")
	require.True(t, ok)
	require.NotNil(t, o.Temperature)
	assert.Equal(t, 0.7, *o.Temperature)
	require.NotNil(t, o.MaxTokens)
	assert.Equal(t, 2048, *o.MaxTokens)
	require.NotNil(t, o.ContextWindow)
	assert.Equal(t, 8192, *o.ContextWindow)
	require.NotNil(t, o.NativeTools)
	assert.True(t, *o.NativeTools)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := modelcfg.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLookup_BaseNameFallback(t *testing.T) {
	table, err := modelcfg.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	o, ok := table.Lookup("llama3.2:latest")
	require.True(t, ok)
	assert.Equal(t, 0.7, *o.Temperature)

	_, ok = table.Lookup("phi3")
	assert.False(t, ok)
}

func TestLookup_ExactBeatsBase(t *testing.T) {
	cfg := `
[models."llama3.2"]
temperature = 0.7

[models."llama3.2:3b"]
temperature = 0.2
`
	table, err := modelcfg.Load(writeConfig(t, cfg))
	require.NoError(t, err)

	o, ok := table.Lookup("llama3.2:3b")
	require.True(t, ok)
	assert.Equal(t, 0.2, *o.Temperature)
}

func TestReload(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	table, err := modelcfg.Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`
default_model = "qwen3"

[models."qwen3"]
temperature = 0.4
`), 0o644))
	require.NoError(t, table.Reload())

	assert.Equal(t, "qwen3", table.DefaultModel())
	_, ok := table.Lookup("llama3.2")
	assert.False(t, ok)
}

func TestReload_KeepsTableOnDecodeFailure(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	table, err := modelcfg.Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`not = [valid toml`), 0o644))
	require.Error(t, table.Reload())

	// Previous contents survive the failed reload.
	_, ok := table.Lookup("llama3.2")
	assert.True(t, ok)
}

func TestNew_InMemory(t *testing.T) {
	temp := 0.3
	table := modelcfg.New(map[string]modelcfg.Overrides{
		"phi3": {Temperature: &temp},
	})

	o, ok := table.Lookup("phi3")
	require.True(t, ok)
	assert.Equal(t, 0.3, *o.Temperature)

	require.Error(t, table.Reload(), "in-memory table has no backing file")
}

func TestWatch_PicksUpRewrite(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	table, err := modelcfg.Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go table.Watch(ctx)

	// Give the watcher a moment to attach before rewriting.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
[models."gemma2"]
temperature = 0.6
`), 0o644))

	require.Eventually(t, func() bool {
		_, ok := table.Lookup("gemma2")
		return ok
	}, 5*time.Second, 50*time.Millisecond)
}
