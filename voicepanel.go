// Package voicepanel is the client side of an AI voice assistant that runs
// on Twilio ConversationRelay.
//
// The backend exposes a small configuration API and places outbound calls;
// this module drives that API and ships the operator tooling around it:
//   - panel: the configuration and call form controller
//   - phonemask: masked display of the phone number being dialed
//   - tts: voice tables per text-to-speech provider
//   - relay: a ConversationRelay test client for the backend websocket
//   - calllog: call counts over the Twilio REST API
//
// # Environment Variables
//
//	VOICEPANEL_URL      - Backend base URL (default http://localhost:8080)
//	NGROK_URL           - Public domain of the backend, used for the relay URL
//	TWILIO_ACCOUNT_SID  - Your Twilio Account SID
//	TWILIO_AUTH_TOKEN   - Your Twilio Auth Token
//	TWILIO_PHONE_NUMBER - The Twilio number calls are placed from
//
// # Quick Start
//
//	ctl := panel.New(backend) // any panel.Backend
//	_ = ctl.Load(ctx)
//	_, _ = ctl.PlaceCall(ctx, "Ada", "+15551234567")
package voicepanel

// AI model identifiers accepted by the backend.
const (
	ModelOpenAIGPT4oMini = "openai-gpt4o-mini"
	ModelOpenAIGPT4o     = "openai-gpt4o"
	ModelOpenAIGPT4      = "openai-gpt4"
	ModelGeminiPro       = "gemini-pro"
	ModelGeminiFlash     = "gemini-flash"
)

// Personality identifiers accepted by the backend.
const (
	PersonalityHelpful      = "helpful"
	PersonalityFriendly     = "friendly"
	PersonalityProfessional = "professional"
	PersonalityCreative     = "creative"
	PersonalityWitty        = "witty"
	PersonalityEmpathetic   = "empathetic"
	PersonalityTechnical    = "technical"
	PersonalityCasual       = "casual"
)

// Defaults the backend starts with.
const (
	DefaultModel       = ModelOpenAIGPT4oMini
	DefaultPersonality = PersonalityHelpful
)

// Call status constants reported by Twilio.
const (
	CallStatusQueued     = "queued"
	CallStatusRinging    = "ringing"
	CallStatusInProgress = "in-progress"
	CallStatusCompleted  = "completed"
	CallStatusBusy       = "busy"
	CallStatusFailed     = "failed"
	CallStatusNoAnswer   = "no-answer"
	CallStatusCanceled   = "canceled"
)

// AssistantConfig is the assistant configuration stored by the backend.
type AssistantConfig struct {
	AIModel      string `json:"aiModel"`
	Personality  string `json:"personality"`
	CustomPrompt string `json:"customPrompt"`
	TTSProvider  string `json:"ttsProvider,omitempty"`
	Voice        string `json:"voice,omitempty"`
}

// DefaultConfig returns the configuration the backend starts with.
func DefaultConfig() AssistantConfig {
	return AssistantConfig{
		AIModel:     DefaultModel,
		Personality: DefaultPersonality,
	}
}

// CallRequest asks the backend to place an outbound call.
type CallRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// CallResult is the backend's answer to a CallRequest.
type CallResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	CallSID string `json:"call_sid"`
}

var models = []string{
	ModelOpenAIGPT4oMini,
	ModelOpenAIGPT4o,
	ModelOpenAIGPT4,
	ModelGeminiPro,
	ModelGeminiFlash,
}

var personalities = []string{
	PersonalityHelpful,
	PersonalityFriendly,
	PersonalityProfessional,
	PersonalityCreative,
	PersonalityWitty,
	PersonalityEmpathetic,
	PersonalityTechnical,
	PersonalityCasual,
}

// Models returns the known AI model identifiers in display order.
func Models() []string {
	return append([]string(nil), models...)
}

// Personalities returns the known personality identifiers in display order.
func Personalities() []string {
	return append([]string(nil), personalities...)
}

// ValidModel reports whether id names a known AI model.
func ValidModel(id string) bool {
	return contains(models, id)
}

// ValidPersonality reports whether id names a known personality.
func ValidPersonality(id string) bool {
	return contains(personalities, id)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
