package bot

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"boutique_backend/internal/gateway"
)

// Engine dispatches inbound updates: public menu browsing for everyone,
// the admin state machine for authenticated roster members. Every failure
// becomes a reply to the sender; none is fatal to the service.
type Engine struct {
	content  *ContentStore
	activity *ActivityStore
	roster   *RosterStore
	sessions SessionStore
	gw       gateway.Gateway
	password string
	log      *zap.Logger
}

func NewEngine(store *Store, sessions SessionStore, gw gateway.Gateway, password string, log *zap.Logger) *Engine {
	return &Engine{
		content:  NewContentStore(store),
		activity: NewActivityStore(store),
		roster:   NewRosterStore(store),
		sessions: sessions,
		gw:       gw,
		password: password,
		log:      log,
	}
}

// HandleUpdate processes one inbound event to completion.
func (e *Engine) HandleUpdate(u gateway.Update) {
	if err := e.activity.Record(u); err != nil {
		e.log.Warn("failed to record activity", zap.Int64("chat_id", u.ChatID), zap.Error(err))
	}

	var err error
	switch {
	case u.Callback != "":
		err = e.handleCallback(u)
	case strings.HasPrefix(u.Text, "/"):
		err = e.handleCommand(u)
	default:
		err = e.handleInput(u)
	}
	if err != nil {
		e.log.Warn("update handling failed", zap.Int64("chat_id", u.ChatID), zap.Error(err))
	}
}

func (e *Engine) reply(chatID int64, text string) error {
	return e.gw.SendMessage(chatID, text, nil)
}

// sendMenu renders the content document as the public inline menu.
func (e *Engine) sendMenu(chatID int64) error {
	doc, err := e.content.Load()
	if err != nil {
		return err
	}

	welcome := doc.Sections["welcome"]
	text := welcome.Text
	if text == "" {
		text = "👋 Bonjour et bienvenue sur notre bot !\nChoisissez une option :"
	}

	var row []gateway.Button
	var keyboard [][]gateway.Button
	for _, name := range doc.SectionNames() {
		if name == "welcome" {
			continue
		}
		row = append(row, gateway.Button{Text: sectionTitle(name), Data: "section:" + name})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	if welcome.PhotoID != "" {
		if err := e.gw.SendPhoto(chatID, welcome.PhotoID, ""); err != nil {
			e.log.Warn("failed to send welcome photo", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
	return e.gw.SendMessage(chatID, text, keyboard)
}

func sectionTitle(name string) string {
	switch name {
	case "contact":
		return "📞 Contact"
	case "services":
		return "💼 Nos Services"
	default:
		return name
	}
}

// sendSection delivers one section's content.
func (e *Engine) sendSection(chatID int64, name string) error {
	doc, err := e.content.Load()
	if err != nil {
		return err
	}

	if name == "services" {
		return e.reply(chatID, doc.RenderServices())
	}

	section, ok := doc.Sections[name]
	if !ok {
		return e.reply(chatID, "Texte non défini.")
	}
	if section.PhotoID != "" {
		return e.gw.SendPhoto(chatID, section.PhotoID, section.Text)
	}
	return e.reply(chatID, section.Text)
}

func (e *Engine) handleCallback(u gateway.Update) error {
	data := u.Callback
	switch {
	case data == "back":
		return e.sendMenu(u.ChatID)
	case strings.HasPrefix(data, "section:"):
		return e.sendSection(u.ChatID, strings.TrimPrefix(data, "section:"))
	case strings.HasPrefix(data, "admin:"):
		return e.handleAdminAction(u, strings.TrimPrefix(data, "admin:"))
	default:
		return e.reply(u.ChatID, "Commande non reconnue.")
	}
}

func (e *Engine) handleCommand(u gateway.Update) error {
	command, args := splitCommand(u.Text)
	switch command {
	case "/start":
		return e.sendMenu(u.ChatID)
	case "/admin":
		return e.startAdmin(u.ChatID)
	case "/reply":
		return e.handleReply(u, args)
	case "/grant":
		return e.handleGrant(u, args)
	case "/revoke":
		return e.handleRevoke(u, args)
	default:
		return e.reply(u.ChatID, "Commande non reconnue.")
	}
}

func splitCommand(text string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func (e *Engine) startAdmin(chatID int64) error {
	sess := e.sessions.Get(chatID)
	if sess.State == StateAuthenticated {
		return e.sendAdminPanel(chatID)
	}

	sess.State = StateAwaitingPassword
	e.sessions.Put(chatID, sess)
	return e.reply(chatID, "🔐 Entrez le mot de passe admin :")
}

// sendAdminPanel renders the admin menu as callback buttons.
func (e *Engine) sendAdminPanel(chatID int64) error {
	doc, err := e.content.Load()
	if err != nil {
		return err
	}

	var keyboard [][]gateway.Button
	for _, name := range doc.SectionNames() {
		keyboard = append(keyboard, []gateway.Button{
			{Text: "✏️ Modifier " + sectionTitle(name), Data: "admin:edit:" + name},
		})
	}
	keyboard = append(keyboard,
		[]gateway.Button{{Text: "👥 Administrateurs", Data: "admin:roster"}},
		[]gateway.Button{{Text: "📣 Diffuser un message", Data: "admin:broadcast"}},
		[]gateway.Button{{Text: "🗑 Vider les messages", Data: "admin:clear"}},
		[]gateway.Button{{Text: "🚪 Quitter admin", Data: "admin:quit"}},
	)
	return e.gw.SendMessage(chatID, "⚙️ Panneau Admin :", keyboard)
}

// authenticated returns the session when the sender is authenticated and
// meets the capability, replying with the refusal otherwise.
func (e *Engine) authenticated(chatID int64, capability Capability) (Session, bool, error) {
	sess := e.sessions.Get(chatID)
	if sess.State != StateAuthenticated {
		return sess, false, e.reply(chatID, "⛔ Réservé aux administrateurs. Utilisez /admin.")
	}
	if !sess.Role.Can(capability) {
		return sess, false, e.reply(chatID, "⛔ Permission refusée.")
	}
	return sess, true, nil
}

func (e *Engine) handleAdminAction(u gateway.Update, action string) error {
	switch {
	case strings.HasPrefix(action, "edit:"):
		sess, ok, err := e.authenticated(u.ChatID, CapEditContent)
		if !ok {
			return err
		}
		name := strings.TrimPrefix(action, "edit:")
		sess.EditTarget = name
		sess.Pending = PendingNone
		e.sessions.Put(u.ChatID, sess)
		return e.reply(u.ChatID, fmt.Sprintf("Envoie le nouveau texte (ou la photo) pour %s :", sectionTitle(name)))

	case action == "roster":
		if _, ok, err := e.authenticated(u.ChatID, CapViewRoster); !ok {
			return err
		}
		members, err := e.roster.Members()
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return e.reply(u.ChatID, "Aucun administrateur enregistré.")
		}
		var b strings.Builder
		b.WriteString("👥 Administrateurs :")
		for _, m := range members {
			b.WriteString(fmt.Sprintf("\n• %d — %s", m.ChatID, m.Role))
		}
		b.WriteString("\n\n/grant <id> <basic|elevated|highest> pour ajouter\n/revoke <id> pour retirer")
		return e.reply(u.ChatID, b.String())

	case action == "broadcast":
		sess, ok, err := e.authenticated(u.ChatID, CapBroadcast)
		if !ok {
			return err
		}
		sess.Pending = PendingBroadcast
		sess.EditTarget = ""
		e.sessions.Put(u.ChatID, sess)
		return e.reply(u.ChatID, "Envoie le message à diffuser à tous les utilisateurs :")

	case action == "clear":
		if _, ok, err := e.authenticated(u.ChatID, CapClearMessages); !ok {
			return err
		}
		removed, err := e.activity.ClearMessages()
		if err != nil {
			return err
		}
		return e.reply(u.ChatID, fmt.Sprintf("🗑 %d messages supprimés.", removed))

	case action == "quit":
		e.sessions.Reset(u.ChatID)
		return e.reply(u.ChatID, "✅ Déconnecté du mode admin.")

	default:
		return e.reply(u.ChatID, "Commande non reconnue.")
	}
}

func (e *Engine) handleReply(u gateway.Update, args string) error {
	if _, ok, err := e.authenticated(u.ChatID, CapReply); !ok {
		return err
	}

	target, text := splitCommand(args)
	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return e.reply(u.ChatID, "Identifiant de chat invalide. Usage : /reply <id> <message>")
	}
	if text == "" {
		return e.reply(u.ChatID, "Message vide. Usage : /reply <id> <message>")
	}

	if err := e.reply(chatID, "💬 "+text); err != nil {
		return e.reply(u.ChatID, "❌ Envoi impossible, destinataire injoignable.")
	}
	return e.reply(u.ChatID, "✅ Message envoyé.")
}

func (e *Engine) handleGrant(u gateway.Update, args string) error {
	if _, ok, err := e.authenticated(u.ChatID, CapAddMember); !ok {
		return err
	}

	target, roleName := splitCommand(args)
	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return e.reply(u.ChatID, "Identifiant de chat invalide. Usage : /grant <id> <basic|elevated|highest>")
	}

	role := RoleBasic
	if roleName != "" {
		role, err = ParseRole(roleName)
		if err != nil {
			return e.reply(u.ChatID, "Rôle inconnu. Rôles : basic, elevated, highest")
		}
	}

	if err := e.roster.Add(chatID, role); err != nil {
		return err
	}
	return e.reply(u.ChatID, fmt.Sprintf("✅ %d ajouté avec le rôle %s.", chatID, role))
}

func (e *Engine) handleRevoke(u gateway.Update, args string) error {
	if _, ok, err := e.authenticated(u.ChatID, CapRemoveMember); !ok {
		return err
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return e.reply(u.ChatID, "Identifiant de chat invalide. Usage : /revoke <id>")
	}

	switch err := e.roster.Remove(u.ChatID, chatID); err {
	case nil:
		return e.reply(u.ChatID, fmt.Sprintf("✅ %d retiré des administrateurs.", chatID))
	case ErrSelfRemoval:
		return e.reply(u.ChatID, "⛔ Impossible de se retirer soi-même.")
	case ErrUnknownMember:
		return e.reply(u.ChatID, "Membre inconnu.")
	default:
		return err
	}
}

// handleInput processes free text and photos according to the session state.
func (e *Engine) handleInput(u gateway.Update) error {
	sess := e.sessions.Get(u.ChatID)

	switch sess.State {
	case StateAwaitingPassword:
		if u.Text != e.password {
			return e.reply(u.ChatID, "❌ Mot de passe incorrect.")
		}
		role, err := e.roster.Authenticate(u.ChatID)
		if err != nil {
			return err
		}
		sess.State = StateAuthenticated
		sess.Role = role
		e.sessions.Put(u.ChatID, sess)
		return e.sendAdminPanel(u.ChatID)

	case StateAuthenticated:
		if sess.Pending == PendingBroadcast {
			sess.Pending = PendingNone
			e.sessions.Put(u.ChatID, sess)
			return e.broadcast(u)
		}
		if sess.EditTarget != "" {
			name := sess.EditTarget
			sess.EditTarget = ""
			e.sessions.Put(u.ChatID, sess)

			if err := e.content.SetSection(name, Section{Text: u.Text, PhotoID: u.PhotoID}); err != nil {
				return err
			}
			return e.reply(u.ChatID, fmt.Sprintf("✅ Texte '%s' mis à jour !", name))
		}
		return e.reply(u.ChatID, "Commande non reconnue.")

	default:
		// Plain text from anonymous users carries no action.
		return nil
	}
}

// broadcast delivers a message to every seen user, one recipient at a time.
// A failed delivery is logged and skipped, never aborting the loop.
func (e *Engine) broadcast(u gateway.Update) error {
	users, err := e.activity.Users()
	if err != nil {
		return err
	}

	sent, failed := 0, 0
	for _, user := range users {
		if user.ChatID == u.ChatID {
			continue
		}

		var err error
		if u.PhotoID != "" {
			err = e.gw.SendPhoto(user.ChatID, u.PhotoID, u.Text)
		} else {
			err = e.gw.SendMessage(user.ChatID, u.Text, nil)
		}
		if err != nil {
			failed++
			e.log.Warn("broadcast delivery failed", zap.Int64("chat_id", user.ChatID), zap.Error(err))
			continue
		}
		sent++
	}

	return e.reply(u.ChatID, fmt.Sprintf("📣 Message diffusé à %d utilisateurs (%d échecs).", sent, failed))
}
