package providers

import (
	"context"
	"fmt"
	"sync"
)

// Registry manages multiple provider instances and provides
// a unified interface for provider selection.
type Registry struct {
	mu sync.RWMutex

	providers map[ProviderType]ChatProvider
	default_  ProviderType
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[ProviderType]ChatProvider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(providerType ProviderType, provider ChatProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if provider == nil {
		return fmt.Errorf("nil provider for %s", providerType)
	}

	r.providers[providerType] = provider

	// Set as default if first provider
	if len(r.providers) == 1 {
		r.default_ = providerType
	}

	return nil
}

// RegisterAnthropic creates and registers an Anthropic provider.
func (r *Registry) RegisterAnthropic(config AnthropicConfig) error {
	provider, err := NewAnthropicProvider(config)
	if err != nil {
		return err
	}
	return r.Register(ProviderTypeAnthropic, provider)
}

// RegisterOpenAI creates and registers an OpenAI provider.
func (r *Registry) RegisterOpenAI(config OpenAIConfig) error {
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		return err
	}
	return r.Register(ProviderTypeOpenAI, provider)
}

// RegisterGoogle creates and registers a Google provider.
func (r *Registry) RegisterGoogle(ctx context.Context, config GoogleConfig) error {
	provider, err := NewGoogleProvider(ctx, config)
	if err != nil {
		return err
	}
	return r.Register(ProviderTypeGoogle, provider)
}

// Get returns a provider by type.
func (r *Registry) Get(providerType ProviderType) (ChatProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerType]
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", providerType)
	}
	return provider, nil
}

// Default returns the default provider.
func (r *Registry) Default() (ChatProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no providers registered")
	}
	return r.providers[r.default_], nil
}

// SetDefault changes the default provider.
func (r *Registry) SetDefault(providerType ProviderType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[providerType]; !ok {
		return fmt.Errorf("provider not registered: %s", providerType)
	}
	r.default_ = providerType
	return nil
}

// Types lists the registered provider types.
func (r *Registry) Types() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProviderType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}
