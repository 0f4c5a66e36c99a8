package llm

import (
	"fmt"
	"sort"
	"sync"

	"docanalyzer/internal/config"
	"docanalyzer/internal/port"
)

// ProviderFactory creates a LanguageModel from the LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.LanguageModel, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a LanguageModel using the factory registered for cfg.Provider.
func New(cfg *config.LLMConfig) (port.LanguageModel, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
