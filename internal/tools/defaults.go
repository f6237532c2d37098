package tools

import "github.com/firstlinehq/firstline/internal/platforms"

// DefaultRegistry registers every tool the pipeline knows about.
func DefaultRegistry(clients platforms.Registry) *Registry {
	r := NewRegistry()
	r.Register(LanguageTool{})
	r.Register(OrderNumberTool{})
	r.Register(SentimentTool{})
	r.Register(OrderStatusTool{})
	r.Register(ProfileTool{Clients: clients})
	return r
}
