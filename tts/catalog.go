// Package tts holds the voice tables the configuration panel offers for
// each text-to-speech provider.
//
// ConversationRelay accepts a provider name and a voice identifier; the
// tables here let the panel offer only voices the chosen provider knows
// and fall back to the provider default when the selection goes stale.
// Voices are omnivoice voices, so any omnivoice TTS provider can be
// registered next to the built-in tables.
package tts

import (
	"context"
	"fmt"
	"sync"

	omnitts "github.com/agentplexus/omnivoice/tts"
)

// Provider names.
const (
	ProviderTwilio     = "twilio"
	ProviderElevenLabs = "elevenlabs"
)

// VoiceSource is the voice listing part of an omnivoice TTS provider.
type VoiceSource interface {
	Name() string
	ListVoices(ctx context.Context) ([]omnitts.Voice, error)
	GetVoice(ctx context.Context, voiceID string) (*omnitts.Voice, error)
}

// Any omnivoice provider can back a catalog entry.
var _ VoiceSource = omnitts.Provider(nil)

// Catalog serves voices by provider name.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]VoiceSource
	cache   map[string][]omnitts.Voice
}

// NewCatalog returns a Catalog over sources. Without sources it serves the
// built-in Twilio and ElevenLabs tables. Voice lists are fetched on first
// use and cached.
func NewCatalog(sources ...VoiceSource) *Catalog {
	if len(sources) == 0 {
		sources = []VoiceSource{TwilioVoices(), ElevenLabsVoices()}
	}

	c := &Catalog{
		sources: make(map[string]VoiceSource, len(sources)),
		cache:   make(map[string][]omnitts.Voice),
	}
	for _, s := range sources {
		if _, ok := c.sources[s.Name()]; !ok {
			c.order = append(c.order, s.Name())
		}
		c.sources[s.Name()] = s
	}
	return c
}

// Providers returns the provider names the catalog knows, in registration
// order.
func (c *Catalog) Providers() []string {
	return append([]string(nil), c.order...)
}

// DefaultVoice returns the voice preselected for provider. Sources that do
// not declare a default fall back to their first listed voice; "" is
// returned for unknown providers.
func (c *Catalog) DefaultVoice(ctx context.Context, provider string) string {
	src, ok := c.sources[provider]
	if !ok {
		return ""
	}
	if d, ok := src.(interface{ DefaultVoice() string }); ok {
		return d.DefaultVoice()
	}

	voices, err := c.ListVoices(ctx, provider)
	if err != nil || len(voices) == 0 {
		return ""
	}
	return voices[0].ID
}

// ListVoices returns the voices for provider.
func (c *Catalog) ListVoices(ctx context.Context, provider string) ([]omnitts.Voice, error) {
	c.mu.RLock()
	if voices, ok := c.cache[provider]; ok {
		cached := make([]omnitts.Voice, len(voices))
		copy(cached, voices)
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	src, ok := c.sources[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", omnitts.ErrNoAvailableProvider, provider)
	}

	voices, err := src.ListVoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s voices: %w", provider, err)
	}

	c.mu.Lock()
	c.cache[provider] = voices
	c.mu.Unlock()

	cached := make([]omnitts.Voice, len(voices))
	copy(cached, voices)
	return cached, nil
}

// GetVoice returns a specific voice of provider by ID.
func (c *Catalog) GetVoice(ctx context.Context, provider, voiceID string) (*omnitts.Voice, error) {
	voices, err := c.ListVoices(ctx, provider)
	if err != nil {
		return nil, err
	}

	for _, v := range voices {
		if v.ID == voiceID {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("%w: %s/%s", omnitts.ErrVoiceNotFound, provider, voiceID)
}

// Select returns voiceID when provider offers it and the provider default
// otherwise. It is used when the provider selection changes under a voice
// picked for another provider.
func (c *Catalog) Select(ctx context.Context, provider, voiceID string) (string, error) {
	if voiceID != "" {
		if _, err := c.GetVoice(ctx, provider, voiceID); err == nil {
			return voiceID, nil
		}
	}
	if _, err := c.ListVoices(ctx, provider); err != nil {
		return "", err
	}
	return c.DefaultVoice(ctx, provider), nil
}
