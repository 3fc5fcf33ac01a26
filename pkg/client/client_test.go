package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesCredentialAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"members": []interface{}{}})
	}))
	defer server.Close()

	c := NewClient(server.URL, StaticTokenSource("tok-123"))
	_, err := c.ListMembers(context.Background(), "W1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientUnauthorizedFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
	}))
	defer server.Close()

	hookFired := false
	c := NewClient(server.URL, StaticTokenSource("stale"),
		WithUnauthorizedHandler(func() { hookFired = true }))

	_, err := c.GetWorkspace(context.Background(), "W1")
	require.Error(t, err)
	assert.True(t, hookFired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid or expired token", apiErr.Message)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "user is already a member of this workspace"})
	}))
	defer server.Close()

	c := NewClient(server.URL, StaticTokenSource("tok"))
	_, err := c.Invite(context.Background(), "W1", "bob", "editor")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "user is already a member of this workspace", apiErr.Message)
}

func TestClientErrorEnvelopeFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer server.Close()

	c := NewClient(server.URL, StaticTokenSource("tok"))
	_, err := c.GetWorkspace(context.Background(), "W1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestInviteReturnsAuthoritativeMemberList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/workspaces/W1/invite", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bob", body["username"])
		assert.Equal(t, "editor", body["role"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "bob has been invited to the workspace",
			"members": []map[string]interface{}{
				{"username": "alice", "role": "owner", "joinedAt": "2026-01-05T10:00:00Z"},
				{"username": "bob", "role": "editor", "joinedAt": "2026-01-06T09:30:00Z"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, StaticTokenSource("tok"))
	members, err := c.Invite(context.Background(), "W1", "bob", "editor")
	require.NoError(t, err)

	// The returned list replaces local state wholesale.
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, "owner", members[0].Role)
	assert.Equal(t, "bob", members[1].Username)
}

func TestTimestampDecoding(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2026-01-05T10:00:00Z"`, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 nano", `"2026-01-05T10:00:00.123456789Z"`, time.Date(2026, 1, 5, 10, 0, 0, 123456789, time.UTC)},
		{"epoch millis", `1767607200000`, time.UnixMilli(1767607200000)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, ts.Time.Equal(tt.want), "got %v want %v", ts.Time, tt.want)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`{"bad":true}`), &ts))
}

func TestTimestampMarshalZeroIsEmpty(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))
}

func TestCanRemove(t *testing.T) {
	assert.True(t, CanRemove("owner", "editor"))
	assert.True(t, CanRemove("owner", "viewer"))
	assert.False(t, CanRemove("owner", "owner"))
	assert.False(t, CanRemove("editor", "viewer"))
	assert.False(t, CanRemove("viewer", "viewer"))
}
