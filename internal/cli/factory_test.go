package cli

import (
	"testing"

	"github.com/aretw0/arbor/internal/adapters/file"
	"github.com/aretw0/arbor/internal/adapters/redis"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryHasDefaultTools(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, []string{"calculate", "search", "get_weather"}, reg.Names())
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	settings := config.Default()
	settings.Agent.APIKeyEnv = "ARBOR_TEST_MISSING_KEY"

	_, err := NewProvider(settings, logging.NewNop())
	assert.Error(t, err)
}

func TestNewProviderWithKey(t *testing.T) {
	t.Setenv("ARBOR_TEST_KEY", "sk-test")
	settings := config.Default()
	settings.Agent.APIKeyEnv = "ARBOR_TEST_KEY"

	provider, err := NewProvider(settings, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}

func TestNewAgentFromSettings(t *testing.T) {
	t.Setenv("ARBOR_TEST_KEY", "sk-test")
	settings := config.Default()
	settings.Agent.APIKeyEnv = "ARBOR_TEST_KEY"
	settings.Agent.Model = "gpt-4o"
	settings.Agent.Temperature = 0.3

	provider, err := NewProvider(settings, logging.NewNop())
	require.NoError(t, err)

	agent, err := NewAgent(settings, provider, NewRegistry(), logging.NewNop(), domain.LifecycleHooks{}, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", agent.ConversationID())
	assert.Equal(t, domain.AgentConfig{Model: "gpt-4o", Temperature: 0.3}, agent.Config())
}

func TestNewCheckpointStoreSelection(t *testing.T) {
	settings := config.Default()
	settings.Agent.CheckpointDir = t.TempDir()

	store := NewCheckpointStore(settings)
	assert.IsType(t, &file.Store{}, store)

	settings.Redis.Enabled = true
	store = NewCheckpointStore(settings)
	assert.IsType(t, &redis.Store{}, store)
}
