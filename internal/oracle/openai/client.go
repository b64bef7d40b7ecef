package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
)

// Ask implements oracle.Oracle with a chat completion in JSON-object mode.
func (c *Client) Ask(ctx context.Context, req oracle.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("oracle.openai.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"profile", req.Profile.Name,
		"text_len", len(req.Text),
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(req))
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("oracle.openai.http_error",
				"req_id", rid, "status", apiErr.HTTPStatusCode, "error", apiErr.Message,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		} else {
			c.logger.Error("oracle.openai.http_error",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("oracle.openai.no_choices",
			"req_id", rid, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in openai response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Info("oracle.openai.ok",
		"req_id", rid,
		"bytes", len(content),
		"finish_reason", resp.Choices[0].FinishReason,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) buildRequest(req oracle.Request) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		// JSON-object mode only yields objects; the array travels under "data".
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.Profile.Instructions},
			{Role: goopenai.ChatMessageRoleSystem, Content: `Wrap the JSON array in an object: {"data": [...]}.`},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt()},
		},
	}
}
