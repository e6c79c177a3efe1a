// Package enhance rewrites prompt fields with an LLM before they are staged
// for editing. It is strictly optional tooling around the classifier: no
// other package depends on it.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

const defaultModel = "claude-sonnet-4-5"

const systemPrompt = `You improve prompts for image-generation models.
Rewrite the user's prompt to be more specific and evocative while preserving
its subject and intent. Keep the comma-separated tag style if the input uses
it. Reply with the rewritten prompt only, no commentary.`

// Rewriter rewrites generation prompts through the Anthropic API.
type Rewriter struct {
	sdk   anthropicsdk.Client
	model string
}

// NewRewriter creates a rewriter. An empty model selects the default. The
// API key is read from ANTHROPIC_API_KEY by the SDK.
func NewRewriter(model string) *Rewriter {
	if model == "" {
		model = defaultModel
	}
	return &Rewriter{
		sdk:   anthropicsdk.NewClient(),
		model: model,
	}
}

// Rewrite returns an improved version of prompt. An optional style hint is
// appended to the instruction. Transient provider errors are retried.
func (r *Rewriter) Rewrite(ctx context.Context, prompt, style string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("rewrite: empty prompt")
	}

	user := prompt
	if style != "" {
		user = fmt.Sprintf("Style direction: %s\n\nPrompt:\n%s", style, prompt)
	}

	var out string
	err := withRetry(ctx, 4, func() error {
		msg, err := r.sdk.Messages.New(ctx, anthropicsdk.MessageNewParams{
			Model:     anthropicsdk.Model(r.model),
			MaxTokens: 1024,
			System:    []anthropicsdk.TextBlockParam{{Text: systemPrompt}},
			Messages: []anthropicsdk.MessageParam{
				anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(user)),
			},
		})
		if err != nil {
			return mapError(err)
		}
		out = collectText(msg)
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("rewrite: model returned no text")
	}
	return strings.TrimSpace(out), nil
}

func collectText(msg *anthropicsdk.Message) string {
	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

func mapError(err error) error {
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		base := APIError{Code: apiErr.StatusCode, Message: apiErr.Error(), Cause: err}
		switch apiErr.StatusCode {
		case 429:
			rl := &RateLimitError{APIError: base}
			if apiErr.Response != nil {
				if d, perr := time.ParseDuration(apiErr.Response.Header.Get("retry-after") + "s"); perr == nil {
					rl.RetryAfter = d
				}
			}
			return rl
		case 401, 403:
			return &AuthError{APIError: base}
		case 500, 502, 503, 529:
			return &ServerError{APIError: base}
		}
		return &base
	}
	return fmt.Errorf("anthropic: %w", err)
}
