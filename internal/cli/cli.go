// Package cli implements the voicepanel command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/agentplexus/voicepanel/calllog"
	"github.com/agentplexus/voicepanel/internal/api"
	"github.com/agentplexus/voicepanel/internal/client"
	"github.com/agentplexus/voicepanel/internal/config"
	"github.com/agentplexus/voicepanel/panel"
	"github.com/agentplexus/voicepanel/relay"
	"github.com/agentplexus/voicepanel/tts"
)

const usage = `usage: voicepanel <command> [flags]

commands:
  config show            print the assistant configuration
  config set [flags]     update the assistant configuration
  call [flags]           place an outbound call
  voices [flags]         list text-to-speech voices
  ask [flags]            send a prompt over ConversationRelay
  calls count [flags]    count calls to and from the Twilio number
`

// ErrUsage is returned for unknown commands.
var ErrUsage = errors.New("invalid usage")

// Run executes the command in args.
func Run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch {
	case cmd == "config" && len(rest) > 0 && rest[0] == "show":
		err = runConfigShow(ctx, cfg, logger, stdout)
	case cmd == "config" && len(rest) > 0 && rest[0] == "set":
		err = runConfigSet(ctx, cfg, logger, rest[1:], stdout, stderr)
	case cmd == "call":
		err = runCall(ctx, cfg, logger, rest, stdout, stderr)
	case cmd == "voices":
		err = runVoices(ctx, rest, stdout, stderr)
	case cmd == "ask":
		err = runAsk(ctx, cfg, rest, stdout, stderr)
	case cmd == "calls" && len(rest) > 0 && rest[0] == "count":
		err = runCallsCount(ctx, cfg, rest[1:], stdout, stderr)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: %s", ErrUsage, strings.Join(args, " "))
	}

	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func newController(cfg config.Config, logger *slog.Logger) (*panel.Controller, error) {
	backend, err := api.New(&api.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, err
	}

	return panel.New(backend,
		panel.WithLogger(logger),
		panel.WithDefaultPhone(cfg.DefaultPhone),
	), nil
}

func runConfigShow(ctx context.Context, cfg config.Config, logger *slog.Logger, stdout io.Writer) error {
	ctl, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	if err := ctl.Load(ctx); err != nil {
		return err
	}

	cur := ctl.Current()
	form := ctl.Form()
	fmt.Fprintf(stdout, "Model: %s\n", cur.Model)
	fmt.Fprintf(stdout, "Personality: %s\n", cur.Personality)
	if form.CustomPrompt != "" {
		fmt.Fprintf(stdout, "Custom prompt: %s\n", form.CustomPrompt)
	}
	if form.TTSProvider != "" {
		fmt.Fprintf(stdout, "Voice: %s/%s\n", form.TTSProvider, form.Voice)
	}
	return nil
}

func runConfigSet(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	model := fs.String("model", "", "AI model ID")
	personality := fs.String("personality", "", "personality ID")
	prompt := fs.String("prompt", "", "custom system prompt, overrides the personality")
	provider := fs.String("tts-provider", "", "text-to-speech provider")
	voice := fs.String("voice", "", "voice ID of the provider")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctl, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	// The form starts from the stored values; a failed load keeps defaults.
	_ = ctl.Load(ctx)

	form := ctl.Form()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			form.AIModel = *model
		case "personality":
			form.Personality = *personality
		case "prompt":
			form.CustomPrompt = *prompt
		case "tts-provider":
			form.TTSProvider = *provider
		case "voice":
			form.Voice = *voice
		}
	})

	err = ctl.Save(ctx, form)
	fmt.Fprintln(stdout, ctl.Status().Message)
	return err
}

func runCall(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "name the assistant greets")
	phone := fs.String("phone", "", "number to call, with country code (default VOICEPANEL_DEFAULT_PHONE)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctl, err := newController(cfg, logger)
	if err != nil {
		return err
	}

	field := ctl.Phone()
	if *phone != "" {
		field.OnFocus()
		field.OnEdit(*phone)
		fmt.Fprintf(stdout, "Calling %s\n", field.OnBlur())
	}

	_, err = ctl.PlaceCall(ctx, *name, "")
	fmt.Fprintln(stdout, ctl.CallStatus().Message)
	return err
}

func runVoices(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("voices", flag.ContinueOnError)
	fs.SetOutput(stderr)
	provider := fs.String("provider", "", "only list this provider")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog := tts.NewCatalog()
	providers := catalog.Providers()
	if *provider != "" {
		providers = []string{*provider}
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tID\tNAME\tLANGUAGE\tGENDER")
	for _, p := range providers {
		voices, err := catalog.ListVoices(ctx, p)
		if err != nil {
			return err
		}
		for _, v := range voices {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Provider, v.ID, v.Name, v.Language, v.Gender)
		}
	}
	return tw.Flush()
}

func runAsk(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prompt := fs.String("prompt", "", "what the caller says")
	callSID := fs.String("call-sid", "CA00000000000000000000000000000000", "call SID reported in the setup message")
	lang := fs.String("lang", "en-US", "language of the prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		return fmt.Errorf("-prompt is required")
	}

	url, err := cfg.RelayEndpoint()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	c, err := relay.Dial(ctx, url, relay.WithLanguage(*lang))
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Setup(*callSID, cfg.Twilio.PhoneNumber, ""); err != nil {
		return err
	}

	reply, err := c.Prompt(ctx, *prompt)
	if reply != "" {
		fmt.Fprintln(stdout, reply)
	}
	return err
}

func runCallsCount(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("calls count", flag.ContinueOnError)
	fs.SetOutput(stderr)
	start := fs.String("start", "", "start time (UTC by default): YYYY-MM-DD or ISO-8601")
	end := fs.String("end", "", "end time (UTC by default): YYYY-MM-DD or ISO-8601")
	inbound := fs.Bool("inbound", false, "count only inbound calls (to your Twilio number)")
	outbound := fs.Bool("outbound", false, "count only outbound calls (from your Twilio number)")
	byStatus := fs.Bool("status-breakdown", false, "show count by Twilio call status")
	byOutcome := fs.Bool("outcome-breakdown", false, "show count by call outcome (ringing, answered, ended, ...)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cfg.Twilio.Validate(); err != nil {
		return err
	}
	if *start == "" || *end == "" {
		return fmt.Errorf("-start and -end are required")
	}
	if *inbound && *outbound {
		return fmt.Errorf("-inbound and -outbound are mutually exclusive")
	}
	if *byStatus && *byOutcome {
		return fmt.Errorf("-status-breakdown and -outcome-breakdown are mutually exclusive")
	}

	q := calllog.Query{Number: cfg.Twilio.PhoneNumber}
	var err error
	if q.Start, err = calllog.ParseTime(*start, false); err != nil {
		return err
	}
	if q.End, err = calllog.ParseTime(*end, true); err != nil {
		return err
	}
	switch {
	case *inbound:
		q.Direction = calllog.Inbound
	case *outbound:
		q.Direction = calllog.Outbound
	}

	twilio, err := client.New(&client.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		BaseURL:    cfg.Twilio.BaseURL,
	})
	if err != nil {
		return err
	}

	report, err := calllog.Count(ctx, twilio, q)
	if err != nil {
		return err
	}
	breakdown := calllog.NoBreakdown
	switch {
	case *byStatus:
		breakdown = calllog.ByStatus
	case *byOutcome:
		breakdown = calllog.ByOutcome
	}
	return report.Write(stdout, breakdown)
}
