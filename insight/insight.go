// Package insight asks a Gemini model for a short motivational summary of a
// user's attendance history. Purely decorative: any failure yields Fallback
// and the attendance flow never waits on it.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/utils"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"google.golang.org/genai"
)

// Fallback is returned whenever the provider is disabled or the model call
// fails.
const Fallback = "Keep up the great work! Your consistency is the key to our team's success."

const systemPrompt = "You are a helpful HR AI assistant for the BlueMark attendance app."

type Provider struct {
	g     *genkit.Genkit
	model ai.ModelRef
}

// NewProvider initializes the Gemini-backed provider. An empty API key
// disables it and every Summarize call returns Fallback.
func NewProvider(ctx context.Context, apiKey string) *Provider {
	if apiKey == "" {
		return &Provider{}
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}))
	model := googlegenai.GoogleAIModelRef("gemini-2.5-flash", &genai.GenerateContentConfig{
		MaxOutputTokens: 200,
		Temperature:     genai.Ptr[float32](0.7),
	})

	return &Provider{g: g, model: model}
}

type logSummary struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	In     *string `json:"in"`
	Out    *string `json:"out"`
}

// Summarize returns a two-sentence punctuality insight for the user's logs.
func (p *Provider) Summarize(ctx context.Context, logs []attendance.AttendanceLog, userName string) string {
	if p == nil || p.g == nil {
		return Fallback
	}

	entries := utils.Map(logs, func(l attendance.AttendanceLog) logSummary {
		return logSummary{
			Date:   l.Date,
			Status: string(l.Status),
			In:     l.CheckInTime,
			Out:    l.CheckOutTime,
		}
	})
	data, err := json.Marshal(entries)
	if err != nil {
		log.Printf("insight: marshal logs: %v", err)
		return Fallback
	}

	prompt := fmt.Sprintf(
		"Based on the following attendance logs for %s, provide a short, encouraging 2-sentence summary/insight about their punctuality and presence. Keep it professional and motivational.\nLogs: %s",
		userName, data,
	)

	resp, err := genkit.Generate(ctx, p.g,
		ai.WithModel(p.model),
		ai.WithSystem(systemPrompt),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		log.Printf("insight: generate failed: %v", err)
		return Fallback
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Fallback
	}
	return text
}
