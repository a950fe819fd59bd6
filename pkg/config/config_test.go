package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

func (s *sample) Validate() error {
	if s.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_TOKEN", "s3cret")
	path := writeFile(t, "port: 9090\ntoken: ${SAMPLE_TOKEN}\n")

	cfg := sample{Name: "default"}
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, sample{Name: "default", Port: 9090, Token: "s3cret"}, cfg)
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "name: x\n")
	err := Load(path, &sample{})
	assert.ErrorContains(t, err, "port is required")
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &sample{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "port: [\n")
	assert.Error(t, Load(path, &sample{Port: 1}))
}

func TestLoadOptional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg := sample{Port: 8080}
	require.NoError(t, LoadOptional(missing, &cfg))
	assert.Equal(t, 8080, cfg.Port)

	assert.Error(t, LoadOptional(missing, &sample{}))

	path := writeFile(t, "port: 1\n")
	require.NoError(t, LoadOptional(path, &cfg))
	assert.Equal(t, 1, cfg.Port)
}
