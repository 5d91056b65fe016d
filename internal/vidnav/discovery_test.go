package vidnav

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidnavigator/vidnav/internal/mcp"
	"github.com/vidnavigator/vidnav/internal/testutil/vidnavtest"
)

func respond(resp any, err error) TransportFunc {
	return func(context.Context, Credentials, *mcp.HTTPRequest) (any, error) {
		return resp, err
	}
}

func TestDiscoverToolsTransportFailure(t *testing.T) {
	creds := Credentials{BaseURL: testBase}
	got := DiscoverTools(context.Background(), creds, respond(nil, errors.New("connection refused")))
	assert.Equal(t, []ToolOption{{Name: "No Tools Available", Value: ""}}, got)
}

func TestDiscoverToolsLabels(t *testing.T) {
	long := strings.Repeat("d", 100)
	resp := map[string]any{"result": map[string]any{"tools": []any{
		map[string]any{"name": "search_videos", "description": "Searches videos across platforms with ranking"},
		map[string]any{"name": "long", "desc": long},
		map[string]any{"name": "plain"},
		map[string]any{"description": "unnamed is skipped"},
		"not an object",
	}}}

	got := DiscoverTools(context.Background(), Credentials{BaseURL: testBase}, respond(resp, nil))
	require.Len(t, got, 3)

	assert.Equal(t, "search_videos — Searches videos across platforms with ranking", got[0].Name)
	assert.Equal(t, "search_videos", got[0].Value)
	assert.Equal(t, "Searches videos across platforms with ranking", got[0].Description)

	assert.Equal(t, "long — "+strings.Repeat("d", 80), got[1].Name)
	assert.Equal(t, long, got[1].Description)

	assert.Equal(t, ToolOption{Name: "plain", Value: "plain"}, got[2])
}

func TestDiscoverToolsTruncatesRunes(t *testing.T) {
	desc := strings.Repeat("é", 90)
	got := ToolOptions(map[string]any{"result": []any{map[string]any{"name": "t", "description": desc}}})
	require.Len(t, got, 1)
	assert.Equal(t, "t — "+strings.Repeat("é", 80), got[0].Name)
}

func TestDiscoverToolsEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp any
	}{
		{"empty list", map[string]any{"result": map[string]any{"tools": []any{}}}},
		{"no result", map[string]any{"error": map[string]any{"code": -32601}}},
		{"scalar", "nope"},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscoverTools(context.Background(), Credentials{BaseURL: testBase}, respond(tt.resp, nil))
			assert.Equal(t, NoToolsAvailable(), got)
		})
	}
}

func TestDiscoverToolsWithoutBaseURL(t *testing.T) {
	called := false
	transport := TransportFunc(func(context.Context, Credentials, *mcp.HTTPRequest) (any, error) {
		called = true
		return nil, nil
	})
	assert.Equal(t, NoToolsAvailable(), DiscoverTools(context.Background(), Credentials{BaseURL: "  "}, transport))
	assert.False(t, called)
}

func TestDiscoverToolsAgainstServer(t *testing.T) {
	srv := vidnavtest.NewServer(t, vidnavtest.DefaultConfig().WithToken("secret"))
	creds := Credentials{BaseURL: srv.URL + "/", Token: "secret"}

	got := DiscoverTools(context.Background(), creds, HTTPTransport{})
	require.Len(t, got, 5)
	assert.Equal(t, "search_videos", got[0].Value)

	last := srv.Last()
	assert.Equal(t, "/", last.Path)
	assert.Equal(t, "Bearer secret", last.Header.Get("Authorization"))
	assert.Equal(t, "tools/list", last.JSON()["method"])

	bad := Credentials{BaseURL: srv.URL, Token: "wrong"}
	assert.Equal(t, NoToolsAvailable(), DiscoverTools(context.Background(), bad, HTTPTransport{}))
}

func TestDiscoverToolsBareList(t *testing.T) {
	cfg := vidnavtest.DefaultConfig()
	cfg.BareToolList = true
	srv := vidnavtest.NewServer(t, cfg)

	got := DiscoverTools(context.Background(), Credentials{BaseURL: srv.URL}, HTTPTransport{})
	assert.Len(t, got, 5)
}
