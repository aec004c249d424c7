package bot

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"boutique_backend/internal/gateway"
)

const (
	DocActivity           = "activity"
	activitySchemaVersion = 1
)

// UserRecord is one chat user the bot has seen.
type UserRecord struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username,omitempty"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// MessageRecord is one logged inbound message.
type MessageRecord struct {
	ChatID     int64     `json:"chat_id"`
	Username   string    `json:"username,omitempty"`
	Text       string    `json:"text,omitempty"`
	PhotoID    string    `json:"photo_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// ActivityDocument is the append-only log of seen users and inbound messages.
type ActivityDocument struct {
	Users    map[string]UserRecord `json:"users"`
	Messages []MessageRecord       `json:"messages"`
}

// ActivityStore maintains the activity document.
type ActivityStore struct {
	store *Store
	now   func() time.Time
}

func NewActivityStore(s *Store) *ActivityStore {
	return &ActivityStore{store: s, now: time.Now}
}

func decodeActivity(body []byte) (*ActivityDocument, error) {
	doc := &ActivityDocument{Users: make(map[string]UserRecord)}
	if len(body) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, err
	}
	if doc.Users == nil {
		doc.Users = make(map[string]UserRecord)
	}
	return doc, nil
}

// Record notes the sender and appends the inbound message.
func (a *ActivityStore) Record(u gateway.Update) error {
	return a.store.Update(DocActivity, func(_ int, body []byte) (int, []byte, error) {
		doc, err := decodeActivity(body)
		if err != nil {
			return 0, nil, err
		}

		now := a.now()
		key := strconv.FormatInt(u.ChatID, 10)
		record, seen := doc.Users[key]
		if !seen {
			record = UserRecord{ChatID: u.ChatID, FirstSeen: now}
		}
		record.LastSeen = now
		if u.Username != "" {
			record.Username = u.Username
		}
		doc.Users[key] = record

		doc.Messages = append(doc.Messages, MessageRecord{
			ChatID:     u.ChatID,
			Username:   u.Username,
			Text:       u.Text,
			PhotoID:    u.PhotoID,
			ReceivedAt: now,
		})

		encoded, err := json.Marshal(doc)
		return activitySchemaVersion, encoded, err
	})
}

// Users lists every seen chat user, ordered by chat ID.
func (a *ActivityStore) Users() ([]UserRecord, error) {
	_, body, err := a.store.Load(DocActivity)
	if err != nil {
		if err == ErrNoDocument {
			return nil, nil
		}
		return nil, err
	}

	doc, err := decodeActivity(body)
	if err != nil {
		return nil, err
	}

	users := make([]UserRecord, 0, len(doc.Users))
	for _, record := range doc.Users {
		users = append(users, record)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ChatID < users[j].ChatID })
	return users, nil
}

// Messages returns the inbound message log.
func (a *ActivityStore) Messages() ([]MessageRecord, error) {
	_, body, err := a.store.Load(DocActivity)
	if err != nil {
		if err == ErrNoDocument {
			return nil, nil
		}
		return nil, err
	}

	doc, err := decodeActivity(body)
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

// ClearMessages drops the whole message log, keeping the seen users, and
// reports how many entries were removed.
func (a *ActivityStore) ClearMessages() (int, error) {
	removed := 0
	err := a.store.Update(DocActivity, func(_ int, body []byte) (int, []byte, error) {
		doc, err := decodeActivity(body)
		if err != nil {
			return 0, nil, err
		}

		removed = len(doc.Messages)
		doc.Messages = nil

		encoded, err := json.Marshal(doc)
		return activitySchemaVersion, encoded, err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
