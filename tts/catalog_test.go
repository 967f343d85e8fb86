package tts

import (
	"context"
	"errors"
	"testing"

	omnitts "github.com/agentplexus/omnivoice/tts"
	"github.com/stretchr/testify/require"
)

// remoteSource lists voices the way a network-backed provider does and
// counts the calls it receives.
type remoteSource struct {
	voices []omnitts.Voice
	err    error
	calls  int
}

func (s *remoteSource) Name() string { return "acme" }

func (s *remoteSource) ListVoices(ctx context.Context) ([]omnitts.Voice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.voices, nil
}

func (s *remoteSource) GetVoice(ctx context.Context, voiceID string) (*omnitts.Voice, error) {
	return nil, omnitts.ErrVoiceNotFound
}

func TestListVoices(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()
	require.Equal(t, []string{ProviderTwilio, ProviderElevenLabs}, c.Providers())

	for _, p := range c.Providers() {
		voices, err := c.ListVoices(ctx, p)
		require.NoError(t, err)
		require.NotEmpty(t, voices)

		for _, v := range voices {
			require.Equal(t, p, v.Provider)
		}

		_, err = c.GetVoice(ctx, p, c.DefaultVoice(ctx, p))
		require.NoError(t, err)
	}

	_, err := c.ListVoices(ctx, "acme")
	require.ErrorIs(t, err, omnitts.ErrNoAvailableProvider)

	_, err = c.GetVoice(ctx, ProviderTwilio, "Polly.Nobody")
	require.ErrorIs(t, err, omnitts.ErrVoiceNotFound)
}

func TestListVoicesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	voices, err := c.ListVoices(ctx, ProviderTwilio)
	require.NoError(t, err)
	voices[0].ID = "changed"

	again, err := c.ListVoices(ctx, ProviderTwilio)
	require.NoError(t, err)
	require.Equal(t, "alice", again[0].ID)
}

func TestTable(t *testing.T) {
	ctx := context.Background()
	table := ElevenLabsVoices()
	require.Equal(t, ProviderElevenLabs, table.Name())

	v, err := table.GetVoice(ctx, "pNInz6obpgDqGcFmaJgB")
	require.NoError(t, err)
	require.Equal(t, "Adam", v.Name)
	require.Equal(t, ProviderElevenLabs, v.Provider)

	_, err = table.GetVoice(ctx, "alice")
	require.ErrorIs(t, err, omnitts.ErrVoiceNotFound)
}

func TestCatalogSource(t *testing.T) {
	ctx := context.Background()
	src := &remoteSource{voices: []omnitts.Voice{
		{ID: "v1", Name: "One", Provider: "acme"},
		{ID: "v2", Name: "Two", Provider: "acme"},
	}}
	c := NewCatalog(src)
	require.Equal(t, []string{"acme"}, c.Providers())

	v, err := c.GetVoice(ctx, "acme", "v2")
	require.NoError(t, err)
	require.Equal(t, "Two", v.Name)

	require.Equal(t, "v1", c.DefaultVoice(ctx, "acme"))
	require.Equal(t, "", c.DefaultVoice(ctx, ProviderTwilio))

	_, err = c.ListVoices(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)
}

func TestCatalogSourceError(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("service unavailable")
	c := NewCatalog(&remoteSource{err: errDown})

	_, err := c.ListVoices(ctx, "acme")
	require.ErrorIs(t, err, errDown)

	_, err = c.Select(ctx, "acme", "v1")
	require.ErrorIs(t, err, errDown)
	require.Equal(t, "", c.DefaultVoice(ctx, "acme"))
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	tests := []struct {
		name     string
		provider string
		voice    string
		wanted   string
	}{
		{
			name:     "known_voice_is_kept",
			provider: ProviderTwilio,
			voice:    "Polly.Amy",
			wanted:   "Polly.Amy",
		},
		{
			name:     "empty_voice_gets_default",
			provider: ProviderElevenLabs,
			voice:    "",
			wanted:   "21m00Tcm4TlvDq8ikWAM",
		},
		{
			name:     "voice_of_other_provider_gets_default",
			provider: ProviderElevenLabs,
			voice:    "Polly.Amy",
			wanted:   "21m00Tcm4TlvDq8ikWAM",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := c.Select(ctx, test.provider, test.voice)
			require.NoError(t, err)
			require.Equal(t, test.wanted, v)
		})
	}

	_, err := c.Select(ctx, "acme", "alice")
	require.ErrorIs(t, err, omnitts.ErrNoAvailableProvider)
}
