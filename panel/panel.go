// Package panel is the controller behind the assistant configuration panel:
// a configuration form, a call form with a masked phone field, and the
// status lines both forms report into.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/agentplexus/voicepanel"
	"github.com/agentplexus/voicepanel/phonemask"
	"github.com/agentplexus/voicepanel/tts"
)

// Backend is the REST API the panel drives.
type Backend interface {
	GetConfig(ctx context.Context) (*voicepanel.AssistantConfig, error)
	SaveConfig(ctx context.Context, cfg voicepanel.AssistantConfig) (*voicepanel.AssistantConfig, error)
	PlaceCall(ctx context.Context, req voicepanel.CallRequest) (*voicepanel.CallResult, error)
}

var (
	ErrMissingCountryCode = errors.New("panel: phone number must start with a country code")
	ErrCallInProgress     = errors.New("panel: a call is already being placed")
	ErrUnknownModel       = errors.New("panel: unknown ai model")
	ErrUnknownPersonality = errors.New("panel: unknown personality")
)

// Summary is the "current configuration" box of the panel.
type Summary struct {
	Model       string
	Personality string
}

// Controller holds the state of one panel.
type Controller struct {
	backend      Backend
	voices       *tts.Catalog
	logger       *slog.Logger
	defaultPhone string
	onStatus     func(Status)

	phone *phonemask.Field

	mu         sync.Mutex
	form       voicepanel.AssistantConfig
	current    voicepanel.AssistantConfig
	status     Status
	callStatus Status
	calling    bool
}

// Option configures the Controller.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	voices       *tts.Catalog
	defaultPhone string
	onStatus     func(Status)
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVoices sets the voice catalog used to check TTS selections.
func WithVoices(c *tts.Catalog) Option {
	return func(o *options) {
		o.voices = c
	}
}

// WithDefaultPhone sets the value the phone field is pre-filled with. It is
// submitted when the user never edits the field.
func WithDefaultPhone(phone string) Option {
	return func(o *options) {
		o.defaultPhone = phone
	}
}

// WithOnStatus registers a callback invoked on every status change of
// either form.
func WithOnStatus(fn func(Status)) Option {
	return func(o *options) {
		o.onStatus = fn
	}
}

// New creates a Controller for backend.
func New(backend Backend, opts ...Option) *Controller {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.voices == nil {
		cfg.voices = tts.NewCatalog()
	}

	return &Controller{
		backend:      backend,
		voices:       cfg.voices,
		logger:       cfg.logger,
		defaultPhone: cfg.defaultPhone,
		onStatus:     cfg.onStatus,
		phone:        &phonemask.Field{},
		form:         voicepanel.DefaultConfig(),
		status:       Status{Form: FormConfig, Message: "Ready to configure", Class: ClassReady},
		callStatus:   Status{Form: FormCall},
	}
}

// Phone returns the phone field bound to the call form.
func (c *Controller) Phone() *phonemask.Field {
	return c.phone
}

// Form returns the values the configuration form currently holds.
func (c *Controller) Form() voicepanel.AssistantConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Current returns the configuration summary, with "Not set" for missing
// values.
func (c *Controller) Current() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Summary{
		Model:       orNotSet(c.current.AIModel),
		Personality: orNotSet(c.current.Personality),
	}
}

// Status returns the configuration form status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CallStatus returns the call form status.
func (c *Controller) CallStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callStatus
}

// Calling reports whether a call request is in flight.
func (c *Controller) Calling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calling
}

// Load fetches the stored configuration and pre-fills the form with it.
// A failed load leaves the defaults in place.
func (c *Controller) Load(ctx context.Context) error {
	cfg, err := c.backend.GetConfig(ctx)
	if err != nil {
		c.logger.Error("load configuration", "error", err)
		c.setStatus(FormConfig, "Ready to configure", ClassReady)
		return fmt.Errorf("load configuration: %w", err)
	}

	c.mu.Lock()
	c.current = *cfg
	if cfg.AIModel != "" {
		c.form.AIModel = cfg.AIModel
	}
	if cfg.Personality != "" {
		c.form.Personality = cfg.Personality
	}
	if cfg.CustomPrompt != "" {
		c.form.CustomPrompt = cfg.CustomPrompt
	}
	if cfg.TTSProvider != "" {
		c.form.TTSProvider = cfg.TTSProvider
		c.form.Voice = cfg.Voice
	}
	c.mu.Unlock()

	c.setStatus(FormConfig, "Configuration loaded", ClassReady)
	return nil
}

// Save validates cfg and stores it on the backend.
func (c *Controller) Save(ctx context.Context, cfg voicepanel.AssistantConfig) error {
	cfg, err := c.validate(ctx, cfg)
	if err != nil {
		c.setStatus(FormConfig, "Error saving configuration", ClassError)
		return err
	}

	c.mu.Lock()
	c.form = cfg
	c.mu.Unlock()

	c.setStatus(FormConfig, "Saving configuration...", ClassSaving)

	if _, err := c.backend.SaveConfig(ctx, cfg); err != nil {
		c.logger.Error("save configuration", "error", err)
		c.setStatus(FormConfig, "Error saving configuration", ClassError)
		return fmt.Errorf("save configuration: %w", err)
	}

	c.mu.Lock()
	c.current = cfg
	c.mu.Unlock()

	c.logger.Info("configuration saved", "model", cfg.AIModel, "personality", cfg.Personality)
	c.setStatus(FormConfig, "Configuration saved successfully!", ClassSaved)
	return nil
}

// SelectProvider changes the TTS provider of the form and returns the voice
// kept for it.
func (c *Controller) SelectProvider(ctx context.Context, provider string) (string, error) {
	c.mu.Lock()
	voice := c.form.Voice
	c.mu.Unlock()

	voice, err := c.voices.Select(ctx, provider, voice)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.form.TTSProvider = provider
	c.form.Voice = voice
	c.mu.Unlock()

	return voice, nil
}

func (c *Controller) validate(ctx context.Context, cfg voicepanel.AssistantConfig) (voicepanel.AssistantConfig, error) {
	if !voicepanel.ValidModel(cfg.AIModel) {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownModel, cfg.AIModel)
	}
	if !voicepanel.ValidPersonality(cfg.Personality) {
		return cfg, fmt.Errorf("%w: %q", ErrUnknownPersonality, cfg.Personality)
	}
	if cfg.TTSProvider == "" {
		cfg.Voice = ""
		return cfg, nil
	}

	voice, err := c.voices.Select(ctx, cfg.TTSProvider, cfg.Voice)
	if err != nil {
		return cfg, err
	}
	cfg.Voice = voice
	return cfg, nil
}

// PlaceCall submits the call form. rawField is the phone input's current
// content, used when the masked field was never edited; when it is empty
// too the default phone applies.
//
// Numbers without a leading "+" are rejected locally without contacting the
// backend.
func (c *Controller) PlaceCall(ctx context.Context, name, rawField string) (*voicepanel.CallResult, error) {
	number := c.phone.Resolve(phonemask.Resolve(rawField, c.defaultPhone))

	if !strings.HasPrefix(number, "+") {
		c.setStatus(FormCall, "Please include country code (e.g., +1 for US)", ClassCallError)
		return nil, ErrMissingCountryCode
	}

	c.mu.Lock()
	if c.calling {
		c.mu.Unlock()
		return nil, ErrCallInProgress
	}
	c.calling = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.calling = false
		c.mu.Unlock()
	}()

	c.setStatus(FormCall, "Initiating call...", ClassCalling)

	masked := phonemask.Mask(number)
	res, err := c.backend.PlaceCall(ctx, voicepanel.CallRequest{Name: name, PhoneNumber: number})
	if err != nil {
		c.logger.Error("initiate call", "to", masked, "error", err)
		c.setStatus(FormCall, "Error: "+errorMessage(err), ClassCallError)
		return nil, fmt.Errorf("initiate call: %w", err)
	}

	c.logger.Info("call initiated", "to", masked, "call_sid", res.CallSID)
	c.setStatus(FormCall, "Call initiated! You should receive a call shortly at "+masked, ClassSuccess)
	return res, nil
}

func (c *Controller) setStatus(form, message, class string) {
	s := Status{Form: form, Message: message, Class: class}

	c.mu.Lock()
	if form == FormCall {
		c.callStatus = s
	} else {
		c.status = s
	}
	fn := c.onStatus
	c.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Failed to initiate call"
	}
	return msg
}

func orNotSet(v string) string {
	if v == "" {
		return "Not set"
	}
	return v
}
