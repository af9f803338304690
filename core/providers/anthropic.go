package providers

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements ChatProvider for Anthropic's Claude models.
type AnthropicProvider struct {
	client *anthropic.Client
	config AnthropicConfig
}

// Supported Anthropic models
var anthropicModels = map[string]bool{
	"claude-opus-4-5-20251101":   true,
	"claude-sonnet-4-5-20250901": true,
	"claude-haiku-4-5-20251001":  true,
}

// NewAnthropicProvider creates a new Anthropic provider with the given configuration.
func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	if config.Model == "" {
		config.Model = DefaultAnthropicConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultAnthropicConfig().MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client: &client,
		config: config,
	}, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return string(ProviderTypeAnthropic)
}

// Complete performs a non-streaming completion request.
func (p *AnthropicProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	params := p.buildParams(req)

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic complete: %w", err)
	}

	return p.convertResponse(msg), nil
}

// SupportsModel checks if the provider supports the given model.
func (p *AnthropicProvider) SupportsModel(model string) bool {
	return anthropicModels[model]
}

// buildParams constructs Anthropic API parameters from a Request.
func (p *AnthropicProvider) buildParams(req *Request) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = p.config.SystemPrompt
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  p.convertMessages(req.Messages),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	} else if p.config.Temperature > 0 {
		params.Temperature = anthropic.Float(p.config.Temperature)
	}

	return params
}

// convertMessages converts generic messages to Anthropic format.
func (p *AnthropicProvider) convertMessages(messages []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			result = append(result, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}
	return result
}

// convertResponse converts an Anthropic response to generic format.
func (p *AnthropicProvider) convertResponse(msg *anthropic.Message) *Response {
	var content string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += b.Text
		}
	}

	return &Response{
		Content:    content,
		Model:      string(msg.Model),
		StopReason: p.convertStopReason(msg.StopReason),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
}

// convertStopReason converts Anthropic stop reason to generic format.
func (p *AnthropicProvider) convertStopReason(reason anthropic.StopReason) StopReason {
	switch reason {
	case anthropic.StopReasonMaxTokens:
		return StopReasonMaxTokens
	default:
		return StopReasonEndTurn
	}
}
