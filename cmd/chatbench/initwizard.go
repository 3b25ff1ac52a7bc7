package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/chatbench/pkg/config"
	"github.com/germanamz/chatbench/pkg/params"
)

// wizardAnswers holds the raw form values. Numbers stay strings until
// buildWizardConfig parses them so the form can validate as the user types.
type wizardAnswers struct {
	BaseURL         string
	Timeout         string
	Greeting        string
	Temperature     string
	MaxOutputTokens string
	TopP            string
	TopK            string
}

func defaultWizardAnswers() wizardAnswers {
	d := config.Default()
	return wizardAnswers{
		BaseURL:         d.BaseURL,
		Greeting:        d.Greeting,
		Temperature:     d.Parameters.Value(params.Temperature),
		MaxOutputTokens: d.Parameters.Value(params.MaxOutputTokens),
		TopP:            d.Parameters.Value(params.TopP),
		TopK:            d.Parameters.Value(params.TopK),
	}
}

// runWizard prompts for the client config and returns it as YAML.
func runWizard() ([]byte, error) {
	a := defaultWizardAnswers()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backend URL").Value(&a.BaseURL).Validate(validateBaseURL),
			huh.NewInput().Title("Request timeout").
				Description("Duration such as 30s. Leave empty for no limit.").
				Value(&a.Timeout).Validate(validateTimeout),
			huh.NewInput().Title("Greeting").
				Description("First assistant message. Leave empty to start blank.").
				Value(&a.Greeting),
		),
		huh.NewGroup(
			huh.NewInput().Title("Temperature (0-1)").Value(&a.Temperature).
				Validate(fieldValidator(params.Temperature)),
			huh.NewInput().Title("Max length (1-2000)").Value(&a.MaxOutputTokens).
				Validate(fieldValidator(params.MaxOutputTokens)),
			huh.NewInput().Title("Top P (0-1)").Value(&a.TopP).
				Validate(fieldValidator(params.TopP)),
			huh.NewInput().Title("Top K (1-100)").Value(&a.TopK).
				Validate(fieldValidator(params.TopK)),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	cfg, err := buildWizardConfig(a)
	if err != nil {
		return nil, err
	}

	return cfg.Marshal()
}

// buildWizardConfig turns form answers into a validated config.
func buildWizardConfig(a wizardAnswers) (config.Config, error) {
	cfg := config.Default()
	cfg.BaseURL = strings.TrimSpace(a.BaseURL)
	cfg.Timeout = strings.TrimSpace(a.Timeout)
	cfg.Greeting = a.Greeting

	p := params.Defaults()
	fields := map[params.Field]string{
		params.Temperature:     a.Temperature,
		params.MaxOutputTokens: a.MaxOutputTokens,
		params.TopP:            a.TopP,
		params.TopK:            a.TopK,
	}
	for _, f := range params.Fields {
		next, err := setExact(p, f, fields[f])
		if err != nil {
			return config.Config{}, err
		}
		p = next
	}
	cfg.Parameters = p

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// setExact assigns raw to f without clamping, so out-of-range answers are
// rejected instead of silently adjusted.
func setExact(p params.Parameters, f params.Field, raw string) (params.Parameters, error) {
	raw = strings.TrimSpace(raw)

	switch f {
	case params.Temperature, params.TopP:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%s: invalid number %q", f, raw)
		}
		if f == params.Temperature {
			p.Temperature = v
		} else {
			p.TopP = v
		}
	case params.MaxOutputTokens, params.TopK:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%s: invalid integer %q", f, raw)
		}
		if f == params.MaxOutputTokens {
			p.MaxOutputTokens = v
		} else {
			p.TopK = v
		}
	}

	if err := p.Validate(); err != nil {
		return p, err
	}

	return p, nil
}

func fieldValidator(f params.Field) func(string) error {
	return func(s string) error {
		_, err := setExact(params.Defaults(), f, s)
		return err
	}
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter an absolute URL such as http://localhost:8000")
	}
	return nil
}

func validateTimeout(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}
