package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleYAML = `
accounts:
  - name: alice
    private_key: 5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3
  - name: mallory
    private_key: not-a-key
rpc:
  endpoints:
    - https://node-a.example
    - https://node-b.example
game_api:
  collected_url: https://game.example/api/collected
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50_000.0, cfg.Strategy.MinClaim)
	assert.Equal(t, 1_000.0, cfg.Strategy.MaxWaste)
	assert.Equal(t, 10_000_000.0, cfg.Strategy.MaxLimit)
	assert.Equal(t, 4.0, cfg.Strategy.DelayMin)
	assert.Equal(t, 10.0, cfg.Strategy.DelayMax)
	assert.Equal(t, 10, cfg.Schedule.IntervalMinutes)
	assert.Equal(t, "claimgame", cfg.Chain.GameContract)
	assert.Equal(t, "GEM", cfg.Chain.TokenSymbol)
	assert.Equal(t, cfg.Chain.GameContract, cfg.Chain.ServiceAccount)
	assert.False(t, cfg.DryRun)
}

func TestValidate_RejectsMaxLimitAtAsymptote(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML+`
strategy:
  max_limit: 50000000
`))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresEndpoints(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
accounts:
  - name: alice
    private_key: k
game_api:
  collected_url: https://game.example/api/collected
`))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidAccounts_FiltersMalformedKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	accounts := cfg.ValidAccounts(zap.NewNop().Sugar())
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Name)
	assert.NotNil(t, accounts[0].Key)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DRY_RUN", "true")
	t.Setenv("INTERVAL_MINUTES", "5")
	t.Setenv("RPC_ENDPOINTS", "https://env-node.example, https://env-node-2.example")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, 5, cfg.Schedule.IntervalMinutes)
	assert.Equal(t, []string{"https://env-node.example", "https://env-node-2.example"}, cfg.RPC.Endpoints)
}
