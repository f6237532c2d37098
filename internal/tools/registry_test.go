package tools

import (
	"context"
	"errors"
	"testing"
)

func testRegistry() *Registry {
	return DefaultRegistry(nil)
}

func TestExecuteUnknownTool(t *testing.T) {
	r := testRegistry()
	_, err := r.Execute(context.Background(), "no_such_tool", nil)
	if err == nil {
		t.Fatal("expected error for unregistered tool")
	}
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("error = %v, want ErrUnknownTool", err)
	}
}

func TestBuiltinTools(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want any
	}{
		{
			name: "detect language",
			tool: NameDetectLanguage,
			args: map[string]any{"text": "hola necesito ayuda con mi pedido"},
			want: "es",
		},
		{
			name: "extract order number",
			tool: NameExtractOrderNumber,
			args: map[string]any{"text": "order #AB123456 missing"},
			want: "AB123456",
		},
		{
			name: "extract order number absent",
			tool: NameExtractOrderNumber,
			args: map[string]any{"text": "hello"},
			want: "",
		},
		{
			name: "sentiment",
			tool: NameSentiment,
			args: map[string]any{"text": "awful horrible worst"},
			want: -1.0,
		},
		{
			name: "sentiment missing arg",
			tool: NameSentiment,
			args: map[string]any{},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Execute(ctx, tt.tool, tt.args)
			if err != nil {
				t.Fatalf("Execute(%s) error: %v", tt.tool, err)
			}
			if got != tt.want {
				t.Errorf("Execute(%s) = %v, want %v", tt.tool, got, tt.want)
			}
		})
	}
}

func TestLookupOrderStatusDeterministic(t *testing.T) {
	first := LookupOrderStatus("AB123456")
	if first["found"] != true {
		t.Fatalf("LookupOrderStatus returned found=false for a real number: %v", first)
	}
	for i := 0; i < 5; i++ {
		again := LookupOrderStatus("AB123456")
		if again["status"] != first["status"] {
			t.Fatalf("lookup not deterministic: %v then %v", first["status"], again["status"])
		}
	}
}

func TestLookupOrderStatusEmpty(t *testing.T) {
	got := LookupOrderStatus("")
	if got["found"] != false {
		t.Errorf("LookupOrderStatus(\"\") = %v, want found=false", got)
	}
}

func TestProfileToolMissingArgs(t *testing.T) {
	r := testRegistry()
	got, err := r.Execute(context.Background(), NameFetchProfile, map[string]any{"platform": "tiktok"})
	if err != nil {
		t.Fatalf("Execute(fetch_profile) error: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["ok"] != false {
		t.Errorf("fetch_profile without user_id = %v, want ok=false", got)
	}
}

func TestProviderDefs(t *testing.T) {
	defs := testRegistry().ProviderDefs()
	if len(defs) != 5 {
		t.Fatalf("ProviderDefs returned %d schemas, want 5", len(defs))
	}
	for _, d := range defs {
		if d.Type != "function" || d.Function.Name == "" || d.Function.Parameters == nil {
			t.Errorf("malformed tool definition: %+v", d)
		}
	}
}
