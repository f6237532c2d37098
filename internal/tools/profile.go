package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/firstlinehq/firstline/internal/platforms"
)

// ProfileTool fetches platform profile data. Failures are returned as an ok:
// false value rather than an error so the result can be fed to a generation
// backend as-is.
type ProfileTool struct {
	Clients platforms.Registry
}

func (ProfileTool) Name() string { return NameFetchProfile }
func (ProfileTool) Description() string {
	return "Fetch the public profile of a user on a messaging platform."
}
func (ProfileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"platform": map[string]any{
				"type":        "string",
				"description": "Platform name: tiktok or linkedin",
			},
			"user_id": map[string]any{
				"type":        "string",
				"description": "Platform-specific user ID",
			},
		},
		"required": []string{"platform", "user_id"},
	}
}

func (t ProfileTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	platform := strings.ToLower(stringArg(args, "platform"))
	userID := stringArg(args, "user_id")

	if platform == "" || userID == "" {
		return map[string]any{"ok": false, "error": "missing platform or user_id"}, nil
	}

	client := t.Clients.Get(platform)
	if client == nil {
		return map[string]any{"ok": false, "error": fmt.Sprintf("unsupported platform: %s", platform)}, nil
	}

	profile, err := client.Profile(ctx, userID)
	if err != nil {
		return map[string]any{"ok": false, "error": err.Error()}, nil
	}

	return map[string]any{"ok": true, "platform": platform, "profile": profile}, nil
}
