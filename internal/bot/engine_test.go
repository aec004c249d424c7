package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boutique_backend/internal/gateway"
)

type sentMessage struct {
	ChatID   int64
	Text     string
	PhotoID  string
	Caption  string
	Keyboard [][]gateway.Button
}

// fakeGateway records outbound traffic and can refuse selected recipients.
type fakeGateway struct {
	Sent        []sentMessage
	Unreachable map[int64]bool
}

func (f *fakeGateway) SendMessage(chatID int64, text string, keyboard [][]gateway.Button) error {
	if f.Unreachable[chatID] {
		return errors.New("recipient unreachable")
	}
	f.Sent = append(f.Sent, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeGateway) SendPhoto(chatID int64, photoID, caption string) error {
	if f.Unreachable[chatID] {
		return errors.New("recipient unreachable")
	}
	f.Sent = append(f.Sent, sentMessage{ChatID: chatID, PhotoID: photoID, Caption: caption})
	return nil
}

func (f *fakeGateway) lastTo(chatID int64) sentMessage {
	for i := len(f.Sent) - 1; i >= 0; i-- {
		if f.Sent[i].ChatID == chatID {
			return f.Sent[i]
		}
	}
	return sentMessage{}
}

func newTestEngine(t *testing.T) (*Engine, *fakeGateway) {
	t.Helper()

	gw := &fakeGateway{Unreachable: make(map[int64]bool)}
	engine := NewEngine(newTestStore(t), NewSessionStore(), gw, "1234", zap.NewNop())
	return engine, gw
}

func text(chatID int64, body string) gateway.Update {
	return gateway.Update{ChatID: chatID, Text: body}
}

func callback(chatID int64, data string) gateway.Update {
	return gateway.Update{ChatID: chatID, Callback: data}
}

func authenticate(e *Engine, chatID int64) {
	e.HandleUpdate(text(chatID, "/admin"))
	e.HandleUpdate(text(chatID, "1234"))
}

func TestStartRendersMenu(t *testing.T) {
	engine, gw := newTestEngine(t)

	engine.HandleUpdate(text(1, "/start"))

	msg := gw.lastTo(1)
	assert.Contains(t, msg.Text, "Bonjour")

	var data []string
	for _, row := range msg.Keyboard {
		for _, button := range row {
			data = append(data, button.Data)
		}
	}
	assert.Contains(t, data, "section:contact")
	assert.Contains(t, data, "section:services")
}

func TestSectionCallbacks(t *testing.T) {
	engine, gw := newTestEngine(t)

	engine.HandleUpdate(callback(1, "section:contact"))
	assert.Contains(t, gw.lastTo(1).Text, "Contactez-nous")

	engine.HandleUpdate(callback(1, "section:services"))
	assert.Contains(t, gw.lastTo(1).Text, "Nos Services")

	engine.HandleUpdate(callback(1, "section:inconnu"))
	assert.Equal(t, "Texte non défini.", gw.lastTo(1).Text)
}

func TestWrongPasswordIsReported(t *testing.T) {
	engine, gw := newTestEngine(t)

	engine.HandleUpdate(text(1, "/admin"))
	assert.Contains(t, gw.lastTo(1).Text, "mot de passe")

	engine.HandleUpdate(text(1, "nope"))
	assert.Equal(t, "❌ Mot de passe incorrect.", gw.lastTo(1).Text)

	// Still awaiting: the correct password then succeeds.
	engine.HandleUpdate(text(1, "1234"))
	assert.Equal(t, "⚙️ Panneau Admin :", gw.lastTo(1).Text)
}

func TestFirstAdminBecomesHighest(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)
	assert.Equal(t, "⚙️ Panneau Admin :", gw.lastTo(100).Text)

	members, err := engine.roster.Members()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, RoleHighest, members[0].Role)
}

func TestBasicRoleCannotRevoke(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100) // highest
	authenticate(engine, 200) // basic

	engine.HandleUpdate(text(200, "/revoke 100"))
	assert.Equal(t, "⛔ Permission refusée.", gw.lastTo(200).Text)

	// Roster unchanged.
	members, err := engine.roster.Members()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestHighestCannotRevokeItself(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)
	engine.HandleUpdate(text(100, "/revoke 100"))
	assert.Equal(t, "⛔ Impossible de se retirer soi-même.", gw.lastTo(100).Text)
}

func TestGrantAndRevoke(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)

	engine.HandleUpdate(text(100, "/grant 200 elevated"))
	assert.Contains(t, gw.lastTo(100).Text, "ajouté")

	members, err := engine.roster.Members()
	require.NoError(t, err)
	require.Len(t, members, 2)

	engine.HandleUpdate(text(100, "/revoke 200"))
	members, err = engine.roster.Members()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestMalformedChatIDIsReported(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)

	engine.HandleUpdate(text(100, "/reply abc bonjour"))
	assert.Contains(t, gw.lastTo(100).Text, "Identifiant de chat invalide")

	engine.HandleUpdate(text(100, "/grant abc"))
	assert.Contains(t, gw.lastTo(100).Text, "Identifiant de chat invalide")
}

func TestReplyReachesTarget(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)
	engine.HandleUpdate(text(100, "/reply 555 bonjour"))

	assert.Equal(t, "💬 bonjour", gw.lastTo(555).Text)
	assert.Equal(t, "✅ Message envoyé.", gw.lastTo(100).Text)
}

func TestEditTargetOverwritesSection(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)

	engine.HandleUpdate(callback(100, "admin:edit:contact"))
	assert.Contains(t, gw.lastTo(100).Text, "nouveau texte")

	engine.HandleUpdate(text(100, "nouveau contact"))
	assert.Equal(t, "✅ Texte 'contact' mis à jour !", gw.lastTo(100).Text)

	doc, err := engine.content.Load()
	require.NoError(t, err)
	assert.Equal(t, "nouveau contact", doc.Sections["contact"].Text)

	// The edit target is cleared: the next text is not an edit.
	engine.HandleUpdate(text(100, "du texte libre"))
	assert.Equal(t, "Commande non reconnue.", gw.lastTo(100).Text)
}

func TestEditTargetAcceptsPhoto(t *testing.T) {
	engine, _ := newTestEngine(t)

	authenticate(engine, 100)
	engine.HandleUpdate(callback(100, "admin:edit:welcome"))
	engine.HandleUpdate(gateway.Update{ChatID: 100, PhotoID: "photo-9", Text: "légende"})

	doc, err := engine.content.Load()
	require.NoError(t, err)
	assert.Equal(t, "photo-9", doc.Sections["welcome"].PhotoID)
}

func TestQuitReturnsToAnonymous(t *testing.T) {
	engine, gw := newTestEngine(t)

	authenticate(engine, 100)
	engine.HandleUpdate(callback(100, "admin:quit"))
	assert.Equal(t, "✅ Déconnecté du mode admin.", gw.lastTo(100).Text)

	engine.HandleUpdate(text(100, "/revoke 200"))
	assert.Contains(t, gw.lastTo(100).Text, "Réservé aux administrateurs")
}

func TestBroadcastIsolatesFailures(t *testing.T) {
	engine, gw := newTestEngine(t)

	// Three users become known to the bot.
	engine.HandleUpdate(text(1, "/start"))
	engine.HandleUpdate(text(2, "/start"))
	engine.HandleUpdate(text(3, "/start"))

	authenticate(engine, 1)
	engine.HandleUpdate(callback(1, "admin:broadcast"))

	gw.Unreachable[2] = true
	engine.HandleUpdate(text(1, "grande nouvelle"))

	// Chat 3 still received the broadcast despite chat 2 failing.
	assert.Equal(t, "grande nouvelle", gw.lastTo(3).Text)
	assert.Contains(t, gw.lastTo(1).Text, "1 utilisateurs (1 échecs)")
}

func TestClearMessages(t *testing.T) {
	engine, gw := newTestEngine(t)

	engine.HandleUpdate(text(1, "/start"))
	authenticate(engine, 100)

	engine.HandleUpdate(callback(100, "admin:clear"))
	assert.Contains(t, gw.lastTo(100).Text, "messages supprimés")

	messages, err := engine.activity.Messages()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestActivityLogging(t *testing.T) {
	engine, _ := newTestEngine(t)

	engine.HandleUpdate(gateway.Update{ChatID: 7, Username: "léa", Text: "/start"})
	engine.HandleUpdate(gateway.Update{ChatID: 7, Text: "bonjour"})

	users, err := engine.activity.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "léa", users[0].Username)

	messages, err := engine.activity.Messages()
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
