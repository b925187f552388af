package vent

import (
	"context"
	"strings"
	"time"

	"github.com/virtualvitae/vitae/pkg/adapter"
	"github.com/virtualvitae/vitae/pkg/utils/logging"
	"google.golang.org/genai"
)

// Fixed replies used when live generation is unavailable. FallbackOnEmpty
// covers a successful call that produced no text, FallbackOnError covers any
// provider failure. They are distinct so the archive shows which path fired.
const (
	FallbackOnEmpty = `Thank you for sharing. It's important to get these thoughts out. Connection is often the best path forward; perhaps there's someone in your life you'd feel comfortable sitting with today?`
	FallbackOnError = `Your thoughts have been safely recorded here. Remember that reaching out to someone you trust, like a family member or your year advisor, is a brave and helpful step forward.`
)

const (
	defaultTemperature = 0.8
	defaultReplyWait   = 30 * time.Second
)

// Responder maps a reflection and a display name to an empathetic reply.
// It makes a single provider attempt per call, favoring a one-round-trip
// submission over best-effort retries.
type Responder struct {
	gemini      adapter.Gemini
	temperature float32
	wait        time.Duration
}

// ResponderOption is a functional option for Responder
type ResponderOption func(*Responder)

// WithTemperature overrides the generation temperature.
func WithTemperature(t float32) ResponderOption {
	return func(r *Responder) {
		r.temperature = t
	}
}

// WithReplyWait bounds how long a single generation call may take before the
// error fallback is used.
func WithReplyWait(d time.Duration) ResponderOption {
	return func(r *Responder) {
		r.wait = d
	}
}

// NewResponder creates a Responder backed by gemini.
func NewResponder(gemini adapter.Gemini, opts ...ResponderOption) *Responder {
	r := &Responder{
		gemini:      gemini,
		temperature: defaultTemperature,
		wait:        defaultReplyWait,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reply generates an empathetic response for a non-blank reflection. It never
// fails from the caller's perspective: any provider error or empty result is
// replaced by a fixed fallback, and the result is always non-empty. Failures
// are recorded as diagnostics only.
func (r *Responder) Reply(ctx context.Context, reflection, name string) string {
	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	temperature := r.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, ""),
		Temperature:       &temperature,
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(reflection, name), genai.RoleUser),
	}

	resp, err := r.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		logging.From(ctx).Warn("reply generation failed, using fallback", "error", err)
		return FallbackOnError
	}

	if text := responseText(resp); text != "" {
		return text
	}

	logging.From(ctx).Warn("reply generation returned no text, using fallback")
	return FallbackOnEmpty
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
