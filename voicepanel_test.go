package voicepanel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	require.True(t, ValidModel(DefaultModel))
	require.True(t, ValidModel(ModelGeminiFlash))
	require.False(t, ValidModel("gpt-4o-mini"))
	require.False(t, ValidModel(""))

	require.True(t, ValidPersonality(DefaultPersonality))
	require.True(t, ValidPersonality(PersonalityCasual))
	require.False(t, ValidPersonality("grumpy"))

	require.Len(t, Models(), 5)
	require.Len(t, Personalities(), 8)

	m := Models()
	m[0] = "changed"
	require.Equal(t, ModelOpenAIGPT4oMini, Models()[0])
}
