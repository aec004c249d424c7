// Package gateway carries chat traffic between the content bot and the
// external messaging gateway. The bot never speaks a platform protocol:
// inbound events arrive as Update values (webhook or websocket stream) and
// replies leave through the Gateway interface.
package gateway

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Update is one inbound chat event, already normalized by the gateway.
type Update struct {
	UpdateID int64  `json:"update_id"`
	ChatID   int64  `json:"chat_id"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	PhotoID  string `json:"photo_id,omitempty"`
	Callback string `json:"callback,omitempty"`
}

// Button is one inline keyboard entry; Data is the opaque callback payload
// echoed back in Update.Callback.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Message is one outbound reply.
type Message struct {
	ChatID   int64      `json:"chat_id"`
	Text     string     `json:"text,omitempty"`
	PhotoID  string     `json:"photo_id,omitempty"`
	Caption  string     `json:"caption,omitempty"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
}

// Gateway delivers replies to chat users.
type Gateway interface {
	SendMessage(chatID int64, text string, keyboard [][]Button) error
	SendPhoto(chatID int64, photoID, caption string) error
}

// HTTPGateway posts replies to the configured gateway base URL.
type HTTPGateway struct {
	BaseURL string
	Log     *zap.Logger
}

func NewHTTPGateway(baseURL string, log *zap.Logger) *HTTPGateway {
	return &HTTPGateway{BaseURL: baseURL, Log: log}
}

func (g *HTTPGateway) SendMessage(chatID int64, text string, keyboard [][]Button) error {
	return g.post("/sendMessage", Message{ChatID: chatID, Text: text, Keyboard: keyboard})
}

func (g *HTTPGateway) SendPhoto(chatID int64, photoID, caption string) error {
	return g.post("/sendPhoto", Message{ChatID: chatID, PhotoID: photoID, Caption: caption})
}

func (g *HTTPGateway) post(path string, msg Message) error {
	agent := fiber.Post(g.BaseURL + path)
	agent.JSON(msg)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		g.Log.Warn("gateway call failed",
			zap.String("path", path),
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(errs[0]))
		return errs[0]
	}
	if code >= 400 {
		err := fmt.Errorf("gateway returned status %d", code)
		g.Log.Warn("gateway call rejected",
			zap.String("path", path),
			zap.Int64("chat_id", msg.ChatID),
			zap.Int("status", code))
		return err
	}
	return nil
}

// BridgeGateway routes replies over the websocket bridge when the chat
// arrived on one, falling back to the HTTP gateway otherwise.
type BridgeGateway struct {
	Hub      *Hub
	Fallback Gateway
}

func (g *BridgeGateway) SendMessage(chatID int64, text string, keyboard [][]Button) error {
	if g.Hub != nil && g.Hub.SendToChat(Message{ChatID: chatID, Text: text, Keyboard: keyboard}) {
		return nil
	}
	return g.Fallback.SendMessage(chatID, text, keyboard)
}

func (g *BridgeGateway) SendPhoto(chatID int64, photoID, caption string) error {
	if g.Hub != nil && g.Hub.SendToChat(Message{ChatID: chatID, PhotoID: photoID, Caption: caption}) {
		return nil
	}
	return g.Fallback.SendPhoto(chatID, photoID, caption)
}
