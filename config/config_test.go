package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, CheckConfig(cfg))
	assert.Equal(t, DefaultLog(), cfg.Log)
	assert.Equal(t, DefaultHasher(), cfg.Hasher)
	assert.Equal(t, DefaultCheckpoint(), cfg.Checkpoint)
}

func TestCheckConfigInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"algorithm", func(c *Config) { c.Hasher.Algorithm = "sha1" }, ErrInvalidAlgorithm},
		{"workers", func(c *Config) { c.Hasher.Workers = -1 }, ErrInvalidWorkers},
		{"chunk", func(c *Config) { c.Hasher.ChunkSize = 100 }, ErrInvalidChunkSize},
		{"negative chunk", func(c *Config) { c.Hasher.ChunkSize = -64 }, ErrInvalidChunkSize},
		{"level", func(c *Config) { c.Log.LogLevel = "loud" }, ErrInvalidLogLevel},
	}
	for _, test := range tests {
		cfg := DefaultConfig()
		test.modify(cfg)
		err := CheckConfig(cfg)
		assert.Equal(t, test.err, errors.Cause(err), test.name)
	}
}

func TestCheckConfigNormalizesAlgorithm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hasher.Algorithm = " MD5 "
	require.NoError(t, CheckConfig(cfg))
	assert.Equal(t, "md5", cfg.Hasher.Algorithm)
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "mdhash-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, DefaultConfigFilename)
	content := `{"hasher": {"algorithm": "md5", "workers": 3}, "checkpoint": {"enabled": true}}`
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0600))

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	require.NoError(t, CheckConfig(cfg))
	assert.Equal(t, "md5", cfg.Hasher.Algorithm)
	assert.Equal(t, 3, cfg.Hasher.Workers)
	assert.Equal(t, defaultChunkSize, cfg.Hasher.ChunkSize)
	assert.True(t, cfg.Checkpoint.Enabled)
	assert.Equal(t, defaultCheckpointDir, cfg.Checkpoint.Dir)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	require.NoError(t, ioutil.WriteFile(filename, []byte("{"), 0600))
	_, err = LoadConfig(filename)
	assert.Error(t, err)
}
