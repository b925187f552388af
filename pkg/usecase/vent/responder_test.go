package vent_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/virtualvitae/vitae/pkg/usecase/vent"
	"google.golang.org/genai"
)

// mockGemini returns a canned response or error and records the last request.
type mockGemini struct {
	resp *genai.GenerateContentResponse
	err  error

	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
	waitForCtx   bool
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastContents = contents
	m.lastConfig = config
	if m.waitForCtx {
		<-ctx.Done()
		return nil, goerr.Wrap(ctx.Err(), "deadline exceeded")
	}
	return m.resp, m.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestReplyPassesProviderTextThrough(t *testing.T) {
	gemini := &mockGemini{resp: textResponse("That sounds like a heavy day, Ana.")}
	responder := vent.NewResponder(gemini)

	reply := responder.Reply(context.Background(), "I feel overwhelmed", "Ana")
	gt.Equal(t, reply, "That sounds like a heavy day, Ana.")
}

func TestReplyEmptyResultUsesEmptyFallback(t *testing.T) {
	testCases := map[string]*genai.GenerateContentResponse{
		"nil response":   nil,
		"no candidates":  {},
		"nil content":    {Candidates: []*genai.Candidate{{}}},
		"no parts":       {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		"blank text":     textResponse("   "),
	}

	for name, resp := range testCases {
		t.Run(name, func(t *testing.T) {
			responder := vent.NewResponder(&mockGemini{resp: resp})
			reply := responder.Reply(context.Background(), "I feel overwhelmed", "Ana")
			gt.Equal(t, reply, vent.FallbackOnEmpty)
		})
	}
}

func TestReplyProviderErrorUsesErrorFallback(t *testing.T) {
	gemini := &mockGemini{err: goerr.New("rate limited")}
	responder := vent.NewResponder(gemini)

	reply := responder.Reply(context.Background(), "I feel overwhelmed", "Ana")
	gt.Equal(t, reply, vent.FallbackOnError)
}

func TestReplyTimeoutUsesErrorFallback(t *testing.T) {
	gemini := &mockGemini{waitForCtx: true}
	responder := vent.NewResponder(gemini, vent.WithReplyWait(10*time.Millisecond))

	reply := responder.Reply(context.Background(), "I feel overwhelmed", "Ana")
	gt.Equal(t, reply, vent.FallbackOnError)
}

func TestReplyNeverEmpty(t *testing.T) {
	mocks := []*mockGemini{
		{resp: textResponse("a real reply")},
		{resp: textResponse("")},
		{err: goerr.New("network down")},
		{waitForCtx: true},
	}

	for _, gemini := range mocks {
		responder := vent.NewResponder(gemini, vent.WithReplyWait(10*time.Millisecond))
		reply := responder.Reply(context.Background(), "anything", "")
		gt.NotEqual(t, reply, "")
	}
}

func TestReplyRequestShape(t *testing.T) {
	gemini := &mockGemini{resp: textResponse("ok")}
	responder := vent.NewResponder(gemini, vent.WithTemperature(0.8))

	responder.Reply(context.Background(), "I feel overwhelmed", "Ana")

	gt.A(t, gemini.lastContents).Length(1)
	prompt := gemini.lastContents[0].Parts[0].Text
	gt.S(t, prompt).Contains("I feel overwhelmed")
	gt.S(t, prompt).Contains("Student Ana")
	gt.S(t, prompt).Contains("under 100 words")

	gt.V(t, gemini.lastConfig).NotNil()
	gt.V(t, gemini.lastConfig.SystemInstruction).NotNil()
	gt.V(t, gemini.lastConfig.Temperature).NotNil()
	gt.Equal(t, *gemini.lastConfig.Temperature, float32(0.8))
}

func TestReplyJoinsMultipleTextParts(t *testing.T) {
	gemini := &mockGemini{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "first "}, {Text: "second"}}}},
		},
	}}
	responder := vent.NewResponder(gemini)

	reply := responder.Reply(context.Background(), "hello", "Ana")
	gt.Equal(t, reply, "first second")
}
