package tts

import (
	"context"
	"fmt"

	omnitts "github.com/agentplexus/omnivoice/tts"
)

// Table is a fixed voice list for one provider. It answers the listing
// methods of an omnivoice TTS provider without calling the provider.
type Table struct {
	name         string
	defaultVoice string
	voices       []omnitts.Voice
}

var _ VoiceSource = (*Table)(nil)

// NewTable returns a Table named name. defaultVoice must be one of voices.
func NewTable(name, defaultVoice string, voices []omnitts.Voice) *Table {
	for i := range voices {
		voices[i].Provider = name
	}
	return &Table{name: name, defaultVoice: defaultVoice, voices: voices}
}

// Name returns the provider name.
func (t *Table) Name() string {
	return t.name
}

// DefaultVoice returns the voice preselected for the provider.
func (t *Table) DefaultVoice() string {
	return t.defaultVoice
}

// ListVoices returns a copy of the table.
func (t *Table) ListVoices(ctx context.Context) ([]omnitts.Voice, error) {
	voices := make([]omnitts.Voice, len(t.voices))
	copy(voices, t.voices)
	return voices, nil
}

// GetVoice returns a specific voice by ID.
func (t *Table) GetVoice(ctx context.Context, voiceID string) (*omnitts.Voice, error) {
	for _, v := range t.voices {
		if v.ID == voiceID {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", omnitts.ErrVoiceNotFound, voiceID)
}

// TwilioVoices returns the voices Twilio's <Say> verb and ConversationRelay
// accept: the basic voices, Amazon Polly and Google.
func TwilioVoices() *Table {
	return NewTable(ProviderTwilio, "alice", []omnitts.Voice{
		// Basic Twilio voices
		{ID: "alice", Name: "Alice", Language: "en-US", Gender: "female"},
		{ID: "man", Name: "Man", Language: "en-US", Gender: "male"},
		{ID: "woman", Name: "Woman", Language: "en-US", Gender: "female"},

		// Amazon Polly voices
		{ID: "Polly.Joanna", Name: "Joanna (Polly)", Language: "en-US", Gender: "female"},
		{ID: "Polly.Matthew", Name: "Matthew (Polly)", Language: "en-US", Gender: "male"},
		{ID: "Polly.Amy", Name: "Amy (Polly)", Language: "en-GB", Gender: "female"},
		{ID: "Polly.Brian", Name: "Brian (Polly)", Language: "en-GB", Gender: "male"},
		{ID: "Polly.Salli", Name: "Salli (Polly)", Language: "en-US", Gender: "female"},
		{ID: "Polly.Joey", Name: "Joey (Polly)", Language: "en-US", Gender: "male"},
		{ID: "Polly.Penelope", Name: "Penelope (Polly)", Language: "es-US", Gender: "female"},
		{ID: "Polly.Celine", Name: "Celine (Polly)", Language: "fr-FR", Gender: "female"},
		{ID: "Polly.Hans", Name: "Hans (Polly)", Language: "de-DE", Gender: "male"},

		// Google voices
		{ID: "Google.en-US-Standard-A", Name: "Google US Female A", Language: "en-US", Gender: "female"},
		{ID: "Google.en-US-Standard-B", Name: "Google US Male B", Language: "en-US", Gender: "male"},
		{ID: "Google.en-US-Journey-O", Name: "Google US Journey O", Language: "en-US", Gender: "female"},
		{ID: "Google.en-US-Journey-D", Name: "Google US Journey D", Language: "en-US", Gender: "male"},
	})
}

// ElevenLabsVoices returns the ElevenLabs stock voices.
func ElevenLabsVoices() *Table {
	return NewTable(ProviderElevenLabs, "21m00Tcm4TlvDq8ikWAM", []omnitts.Voice{
		{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Language: "en-US", Gender: "female"},
		{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Language: "en-US", Gender: "female"},
		{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Language: "en-US", Gender: "female"},
		{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Language: "en-US", Gender: "male"},
		{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Language: "en-US", Gender: "male"},
		{ID: "pNInz6obpgDqGcFmaJgB", Name: "Adam", Language: "en-US", Gender: "male"},
	})
}
