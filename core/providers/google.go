package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleProvider implements ChatProvider for Google's Gemini models.
type GoogleProvider struct {
	client *genai.Client
	config GoogleConfig
}

// Supported Google models
var googleModels = map[string]bool{
	"gemini-2.5-pro":   true,
	"gemini-2.5-flash": true,
}

// NewGoogleProvider creates a new Gemini provider. With UseVertexAI set the
// client authenticates against Vertex AI instead of the Gemini API.
func NewGoogleProvider(ctx context.Context, config GoogleConfig) (*GoogleProvider, error) {
	if config.Model == "" {
		config.Model = DefaultGoogleConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultGoogleConfig().MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.UseVertexAI {
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = config.ProjectID
		clientConfig.Location = config.Location
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("google client: %w", err)
	}

	return &GoogleProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider identifier.
func (p *GoogleProvider) Name() string {
	return string(ProviderTypeGoogle)
}

// Complete performs a non-streaming completion request.
func (p *GoogleProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	config := p.buildConfig(req)
	contents := p.convertMessages(req.Messages)

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("google complete: %w", err)
	}

	return p.convertResponse(result, model), nil
}

// SupportsModel checks if the provider supports the given model.
func (p *GoogleProvider) SupportsModel(model string) bool {
	return googleModels[model]
}

func (p *GoogleProvider) buildConfig(req *Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = p.config.SystemPrompt
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	} else if p.config.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(p.config.Temperature))
	}

	return config
}

func (p *GoogleProvider) convertMessages(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

func (p *GoogleProvider) convertResponse(result *genai.GenerateContentResponse, model string) *Response {
	response := &Response{
		Content:    result.Text(),
		Model:      model,
		StopReason: StopReasonEndTurn,
	}

	if result.UsageMetadata != nil {
		response.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		response.StopReason = StopReasonMaxTokens
	}

	return response
}
