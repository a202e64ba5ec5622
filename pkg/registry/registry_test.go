package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) domain.Tool {
	return domain.Tool{
		Name:        name,
		Description: "echoes its input",
		Parameters:  map[string]any{"type": "object"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := registry.New()
	reg.Register(echoTool("echo"))

	tool, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegisterReplacesByName(t *testing.T) {
	reg := registry.New()
	reg.Register(domain.Tool{Name: "dup", Description: "first"})
	reg.Register(echoTool("other"))
	reg.Register(domain.Tool{Name: "dup", Description: "second"})

	tool, ok := reg.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "second", tool.Description)

	// Replacement keeps the original listing position.
	assert.Equal(t, []string{"dup", "other"}, reg.Names())
	assert.Len(t, reg.List(), 2)
}

func TestSchemasOmitHandlers(t *testing.T) {
	reg := registry.New()
	reg.Register(echoTool("echo"))

	schemas := reg.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "echo", schemas[0].Name)
	assert.Nil(t, schemas[0].Handler)
	assert.NotNil(t, schemas[0].Parameters)
}

func TestExecute(t *testing.T) {
	reg := registry.New()
	reg.Register(echoTool("echo"))

	out, err := reg.Execute(context.Background(), "echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, err = reg.Execute(context.Background(), "missing", nil)
	assert.Error(t, err)
}
