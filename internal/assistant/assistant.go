// Package assistant answers free-form questions about the cafe's numbers by
// grounding a Gemini prompt in the current dashboard.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/config"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/IMC-ERP/ERP-FE-sub000/pkg/logger"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

var (
	ErrDisabled      = errors.New("assistant is not configured")
	ErrEmptyQuestion = errors.New("question must not be empty")
	ErrEmptyAnswer   = errors.New("no text content received from model")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// DashboardSource is the slice of the analytics service the assistant reads.
type DashboardSource interface {
	Dashboard(ctx context.Context, q service.RangeQuery) (service.Dashboard, error)
}

type Answer struct {
	Question string             `json:"question"`
	Range    service.RangeQuery `json:"range"`
	Answer   string             `json:"answer"`
}

type Advisor struct {
	source DashboardSource
	gen    Generator
	log    zerolog.Logger
}

func NewAdvisor(source DashboardSource, gen Generator) *Advisor {
	return &Advisor{source: source, gen: gen, log: logger.Component("assistant")}
}

// Ask loads the dashboard for q and asks the model about it.
func (a *Advisor) Ask(ctx context.Context, question string, q service.RangeQuery) (Answer, error) {
	if a == nil || a.gen == nil {
		return Answer{}, ErrDisabled
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	dash, err := a.source.Dashboard(ctx, q)
	if err != nil {
		return Answer{}, fmt.Errorf("load dashboard: %w", err)
	}

	text, err := a.gen.Generate(ctx, BuildPrompt(question, dash))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	a.log.Debug().Str("start", dash.Range.Start).Str("end", dash.Range.End).Msg("assistant answered")
	return Answer{Question: question, Range: dash.Range, Answer: strings.TrimSpace(text)}, nil
}

// BuildPrompt renders the dashboard as plain facts followed by the question.
func BuildPrompt(question string, d service.Dashboard) string {
	var b strings.Builder
	b.WriteString("You are a cafe business analyst. Answer using only the figures below. ")
	b.WriteString("Be concise and quote amounts exactly as given.\n\n")

	fmt.Fprintf(&b, "Period: %s to %s\n", d.Range.Start, d.Range.End)
	fmt.Fprintf(&b, "Revenue: %s over %d sales (average ticket %s)\n",
		d.Summary.Revenue.StringFixed(0), d.Summary.Count, d.Summary.AvgTicket.StringFixed(0))
	fmt.Fprintf(&b, "Previous period %s to %s revenue: %s (change %.1f%%)\n",
		d.Comparison.Previous.Start, d.Comparison.Previous.End,
		d.Comparison.PreviousRevenue.StringFixed(0), d.Comparison.PercentageChange)

	if len(d.TopItems) > 0 {
		b.WriteString("Top items by quantity:\n")
		for _, item := range d.TopItems {
			fmt.Fprintf(&b, "  %d. %s: %d sold, revenue %s\n",
				item.Rank, item.ItemName, item.Quantity, item.Revenue.StringFixed(0))
		}
	}

	if len(d.Categories) > 0 {
		b.WriteString("Revenue by category:\n")
		for _, c := range d.Categories {
			fmt.Fprintf(&b, "  %s: %s (%.1f%%)\n", c.Category, c.Revenue.StringFixed(0), c.Share)
		}
	}

	if d.Hourly.Peak != nil {
		fmt.Fprintf(&b, "Busiest hour: %02d:00 (revenue %s)\n", d.Hourly.Peak.Hour, d.Hourly.Peak.Revenue.StringFixed(0))
	}

	if len(d.CogsAlerts) > 0 {
		b.WriteString("Menu items with critical ingredient cost ratio:\n")
		for _, c := range d.CogsAlerts {
			fmt.Fprintf(&b, "  %s: cost %s of price %s (%.1f%%)\n",
				c.Name, c.Cost.StringFixed(0), c.SalePrice.StringFixed(0), c.Ratio)
		}
	}

	for _, s := range d.Inventory {
		fmt.Fprintf(&b, "Inventory %s: %d items\n", s.Status, s.Count)
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator returns nil, nil when the assistant is disabled.
func NewGeminiGenerator(ctx context.Context, cfg config.AssistantConfig) (*GeminiGenerator, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0.2)

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyAnswer
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyAnswer
	}
	return text.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
