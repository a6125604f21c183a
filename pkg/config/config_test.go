package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("CATEGORY_SEED_FILE", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/accountbook.db", cfg.DBPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9000\nDB_PATH=/tmp/test.db\nDEBUG=true\n"), 0o644))

	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.Debug)
}

func TestLoadCategorySeedsDefaults(t *testing.T) {
	cfg := &Config{}

	seeds, err := cfg.LoadCategorySeeds()
	require.NoError(t, err)
	assert.NotEmpty(t, seeds.Income)
	assert.NotEmpty(t, seeds.Expense)
	assert.Contains(t, seeds.Expense, "식비")
}

func TestLoadCategorySeedsFromFile(t *testing.T) {
	seedFile := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte("income:\n  - 월급\nexpense:\n  - 식비\n  - 여행\n"), 0o644))

	cfg := &Config{CategorySeedFile: seedFile}
	seeds, err := cfg.LoadCategorySeeds()
	require.NoError(t, err)

	assert.Equal(t, []string{"월급"}, seeds.Income)
	assert.Equal(t, []string{"식비", "여행"}, seeds.Expense)
}

func TestLoadCategorySeedsPartialFileFallsBack(t *testing.T) {
	seedFile := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte("income:\n  - 월급\n"), 0o644))

	cfg := &Config{CategorySeedFile: seedFile}
	seeds, err := cfg.LoadCategorySeeds()
	require.NoError(t, err)

	assert.Equal(t, []string{"월급"}, seeds.Income)
	assert.NotEmpty(t, seeds.Expense)
}
