package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Combat: CombatConfig{
			BaseCritChance:        0.05,
			PenetrationEfficiency: 1.0,
			ArmorEfficiency:       1.0,
			MaxAimBonus:           10,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0.05, cfg.Combat.BaseCritChance)
}

func TestCombatParams(t *testing.T) {
	cfg := validConfig()
	p := cfg.Combat.Params()
	assert.Equal(t, 0.05, p.BaseCritChance)
	assert.Equal(t, 1.0, p.PenetrationEfficiency)
	assert.Equal(t, 1.0, p.ArmorEfficiency)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
combat:
  base_crit_chance: 0.1
  max_aim_bonus: 6
  seed: 42
content:
  weapon_dir: data/weapons
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.1, cfg.Combat.BaseCritChance)
	assert.Equal(t, 6.0, cfg.Combat.MaxAimBonus)
	assert.Equal(t, int64(42), cfg.Combat.Seed)
	assert.Equal(t, "data/weapons", cfg.Content.WeaponDir)
	assert.Equal(t, 1.0, cfg.Combat.ArmorEfficiency, "defaults fill omitted keys")
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCombatBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Combat.BaseCritChance = 1.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.PenetrationEfficiency = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.ArmorEfficiency = -0.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.MaxAimBonus = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateCombat_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Combat.BaseCritChance = rapid.Float64Range(0, 1).Draw(t, "crit")
		cfg.Combat.PenetrationEfficiency = rapid.Float64Range(0, 5).Draw(t, "pen")
		cfg.Combat.ArmorEfficiency = rapid.Float64Range(0, 5).Draw(t, "armor")
		cfg.Combat.MaxAimBonus = rapid.Float64Range(0, 100).Draw(t, "aim")
		assert.NoError(t, cfg.Validate())
	})
}
