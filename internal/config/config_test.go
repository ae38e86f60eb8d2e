package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnnrbrn/feu-docs-indexer/internal/docs"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ALGOLIA_APP_ID", "ALGOLIA_API_KEY", "ALGOLIA_WRITE_KEY", "ALGOLIA_INDEX",
		"DOCS_INDEXER_SECTION", "DOCS_INDEXER_SQLITE_PATH",
	} {
		t.Setenv(key, "")
	}
	// Keep godotenv from picking up a developer's .env file.
	t.Chdir(t.TempDir())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "XRHUM5F9FB", cfg.Algolia.AppID)
	assert.Equal(t, "feu", cfg.Algolia.Index)
	assert.Empty(t, cfg.Algolia.WriteKey)
	assert.Equal(t, "feu/js-frameworks/", cfg.Section)
	assert.Equal(t, docs.DefaultExcluded, cfg.Exclude)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCS_TEST_KEY", "from-expand")
	t.Setenv("ALGOLIA_INDEX", "feu-staging")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "algolia:\n" +
		"  app_id: APP123\n" +
		"  write_key: ${DOCS_TEST_KEY}\n" +
		"  index: feu\n" +
		"section: feu/css/\n" +
		"exclude:\n" +
		"  - README.md\n" +
		"sqlite:\n" +
		"  path: /tmp/mirror.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "APP123", cfg.Algolia.AppID)
	assert.Equal(t, "from-expand", cfg.Algolia.WriteKey)
	assert.Equal(t, "feu-staging", cfg.Algolia.Index)
	assert.Equal(t, "feu/css/", cfg.Section)
	assert.Equal(t, []string{"README.md"}, cfg.Exclude)
	assert.Equal(t, "/tmp/mirror.db", cfg.SQLite.Path)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to "".
	require.NoError(t, os.Unsetenv("ALGOLIA_WRITE_KEY"))
	t.Cleanup(func() { _ = os.Unsetenv("ALGOLIA_WRITE_KEY") })
	require.NoError(t, os.WriteFile(".env", []byte("ALGOLIA_WRITE_KEY=dotenv-key\n"), 0o600))

	cfg, err := Load("absent.yaml")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Algolia.WriteKey)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("algolia: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()

	err := cfg.Validate(BackendAlgolia)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write_key")

	require.NoError(t, cfg.Validate(BackendSQLite))

	cfg.Algolia.WriteKey = "key"
	require.NoError(t, cfg.Validate(BackendAlgolia))

	assert.Error(t, cfg.Validate("elastic"))

	cfg.Section = ""
	assert.Error(t, cfg.Validate(BackendSQLite))
}
