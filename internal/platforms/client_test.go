package platforms

import (
	"context"
	"testing"
)

func TestMockModeWithoutCredentials(t *testing.T) {
	ctx := context.Background()

	clients := []Client{
		NewTikTokClient("", 60),
		NewLinkedInClient("", 60),
	}

	for _, c := range clients {
		if err := c.SendMessage(ctx, "conv-1", "hello"); err != nil {
			t.Errorf("%s mock send: %v", c.Name(), err)
		}
		profile, err := c.Profile(ctx, "u1")
		if err != nil {
			t.Errorf("%s mock profile: %v", c.Name(), err)
		}
		if profile["user_id"] != "u1" {
			t.Errorf("%s mock profile = %v", c.Name(), profile)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	tiktok := NewTikTokClient("", 60)
	reg := Registry{"tiktok": tiktok}

	if got := reg.Get("tiktok"); got != tiktok {
		t.Error("Get returned wrong client")
	}
	if got := reg.Get("carrier-pigeon"); got != nil {
		t.Errorf("Get(unknown) = %v, want nil", got)
	}
}
