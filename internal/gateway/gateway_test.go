package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPGatewaySendMessage(t *testing.T) {
	var (
		gotPath string
		gotBody Message
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(payload, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, zap.NewNop())
	err := gw.SendMessage(42, "bonjour", [][]Button{{{Text: "Contact", Data: "section:contact"}}})
	require.NoError(t, err)

	assert.Equal(t, "/sendMessage", gotPath)
	assert.Equal(t, int64(42), gotBody.ChatID)
	assert.Equal(t, "bonjour", gotBody.Text)
	require.Len(t, gotBody.Keyboard, 1)
	assert.Equal(t, "section:contact", gotBody.Keyboard[0][0].Data)
}

func TestHTTPGatewayReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, zap.NewNop())
	err := gw.SendPhoto(42, "photo-1", "légende")
	assert.Error(t, err)
}

func TestHubSendToChatWithoutBridge(t *testing.T) {
	hub := NewHub(zap.NewNop())
	assert.False(t, hub.SendToChat(Message{ChatID: 42, Text: "bonjour"}))
}

func TestBridgeGatewayFallsBack(t *testing.T) {
	var delivered []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		var msg Message
		_ = json.Unmarshal(payload, &msg)
		delivered = append(delivered, msg)
	}))
	defer server.Close()

	gw := &BridgeGateway{
		Hub:      NewHub(zap.NewNop()),
		Fallback: NewHTTPGateway(server.URL, zap.NewNop()),
	}

	require.NoError(t, gw.SendMessage(42, "bonjour", nil))
	require.Len(t, delivered, 1)
	assert.Equal(t, "bonjour", delivered[0].Text)
}
