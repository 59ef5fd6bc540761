package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ponderlabs/ponder/internal/resilience"
)

// Request is a single inference call.
type Request struct {
	// System is the system prompt. Optional.
	System string
	// Prompt is the user message text.
	Prompt string
	// MaxTokens overrides the client's response cap when > 0.
	MaxTokens int64
	// CacheSystem requests provider-side caching of the system block. Set
	// it when the cache advisor judges the content worth the cache-write
	// premium.
	CacheSystem bool
}

// Response is the result of a single inference call.
type Response struct {
	// Content is the concatenated text of the response.
	Content string
	// Model identifies the backend model that produced the response.
	Model string
	// InputTokens and OutputTokens report usage for this call.
	InputTokens  int64
	OutputTokens int64
}

// Invoke issues one call to the inference service. It applies no retries and
// no artificial delays; wrap calls with the resilience invoker. SDK errors
// that carry an HTTP status are translated so the classifier can use the
// status instead of matching message text.
func (c *Client) Invoke(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if req.System != "" {
		block := anthropic.TextBlockParam{Text: req.System}
		if req.CacheSystem {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		params.System = []anthropic.TextBlockParam{block}
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return nil, &resilience.HTTPError{Status: apierr.StatusCode, Err: err}
		}
		return nil, fmt.Errorf("invoke %s: %w", c.model, err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var content string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += variant.Text
		}
	}

	return &Response{
		Content:      content,
		Model:        string(c.model),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
