// Package rewrite transforms Reddit stories into narration-friendly scripts.
// Original story text is never exported directly; every script that leaves
// this package has been paraphrased by one of the providers below.
package rewrite

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultTargetWords is the target script length when the caller does not
// specify one. Roughly 30-60 seconds of narration.
const DefaultTargetWords = 200

// promptTemplate is the instruction sent to LLM providers. The two %d/%s
// verbs are the target word count and the original story text.
const promptTemplate = `You are a professional content writer who transforms stories into engaging short-form video scripts.

Your task is to rewrite the following story for a vertical video. The script should be:
1. Completely paraphrased - use different words and sentence structures
2. Engaging with a strong hook at the very beginning
3. Conversational and easy to listen to
4. Suitable for text-to-speech narration
5. Around %d words (approximately 30-60 seconds when spoken)

Rules:
- Start with an attention-grabbing hook line (e.g., "You won't believe what happened..." or "So this is absolutely insane...")
- Use simple, conversational language
- Keep the core story events but change ALL wording
- Remove any Reddit-specific references (like "AITA", "throwaway", "edit:", etc.)
- Don't include any URLs or usernames
- Make it flow naturally for spoken narration
- End with something memorable or a question to engage viewers

Original story:
---
%s
---

Write only the rewritten script, nothing else. Do not include any commentary or explanations.`

// buildPrompt fills the rewrite prompt for one story.
func buildPrompt(originalText string, targetWords int) string {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}
	return fmt.Sprintf(promptTemplate, targetWords, originalText)
}

// Rewriter paraphrases a story into a narration script of roughly
// targetWords words.
type Rewriter interface {
	Rewrite(ctx context.Context, originalText string, targetWords int) (string, error)
}

// Settings selects and configures a rewriter provider.
type Settings struct {
	// Provider is one of "anthropic", "openai", "dummy". Unknown values and
	// missing API keys fall back to the dummy rewriter with a warning.
	Provider string

	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	// Log receives fallback warnings. Nil discards them.
	Log io.Writer
}

// New creates the rewriter selected by s. It never fails: providers that
// cannot be constructed degrade to the dummy rewriter so the pipeline still
// produces output.
func New(s Settings) Rewriter {
	log := s.Log
	if log == nil {
		log = io.Discard
	}

	switch strings.ToLower(s.Provider) {
	case "anthropic":
		if s.AnthropicAPIKey == "" {
			fmt.Fprintln(log, "warning: ANTHROPIC_API_KEY not set, falling back to dummy rewriter")
			return NewDummyRewriter()
		}
		var opts []AnthropicOption
		if s.AnthropicModel != "" {
			opts = append(opts, WithAnthropicModel(s.AnthropicModel))
		}
		r, err := NewAnthropicRewriter(s.AnthropicAPIKey, opts...)
		if err != nil {
			fmt.Fprintf(log, "warning: anthropic rewriter unavailable (%v), falling back to dummy rewriter\n", err)
			return NewDummyRewriter()
		}
		return r

	case "openai":
		if s.OpenAIAPIKey == "" {
			fmt.Fprintln(log, "warning: OPENAI_API_KEY not set, falling back to dummy rewriter")
			return NewDummyRewriter()
		}
		var opts []OpenAIOption
		if s.OpenAIModel != "" {
			opts = append(opts, WithOpenAIModel(s.OpenAIModel))
		}
		return NewOpenAIRewriter(s.OpenAIAPIKey, opts...)

	case "dummy", "":
		return NewDummyRewriter()

	default:
		fmt.Fprintf(log, "warning: unknown rewriter provider %q, using dummy rewriter\n", s.Provider)
		return NewDummyRewriter()
	}
}
