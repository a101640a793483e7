package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrAIDisabled = errors.New("ai: no api key configured")

type AIConfig struct {
	APIKey string
	Model  string
}

func (c AIConfig) Enabled() bool { return c.APIKey != "" }

func NewAIClient(ctx context.Context, cfg AIConfig) (*genai.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrAIDisabled
	}
	return genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
}

// GenerateText runs one prompt and concatenates the text parts of every
// candidate.
func GenerateText(ctx context.Context, client *genai.Client, model, system string, parts ...genai.Part) (string, error) {
	m := client.GenerativeModel(model)
	if system != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	m.SetTemperature(0.4)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp != nil {
		for _, c := range resp.Candidates {
			if c == nil || c.Content == nil {
				continue
			}
			for _, p := range c.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
	}
	return strings.TrimSpace(b.String())
}
