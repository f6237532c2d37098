// Package platforms holds the outbound messaging clients. These are thin
// I/O wrappers: the pipeline core never talks to them directly, only the
// message processor (delivery) and the fetch_profile tool do.
package platforms

import "context"

// Client is one messaging platform (TikTok, LinkedIn).
type Client interface {
	// Name returns the platform identifier ("tiktok", "linkedin").
	Name() string

	// SendMessage delivers text to a platform conversation.
	SendMessage(ctx context.Context, conversationID, text string) error

	// Profile fetches public profile data for a platform user.
	Profile(ctx context.Context, userID string) (map[string]any, error)
}

// Registry maps platform name to client.
type Registry map[string]Client

// Get looks up a client by name, nil when the platform is unknown.
func (r Registry) Get(name string) Client {
	return r[name]
}
