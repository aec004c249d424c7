package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

const (
	DocRoster           = "roster"
	rosterSchemaVersion = 1
)

var (
	ErrSelfRemoval   = errors.New("cannot remove own roster entry")
	ErrUnknownMember = errors.New("roster member not found")
)

// Role is the admin tier of a roster member. Tiers form a total order.
type Role int

const (
	RoleBasic Role = iota + 1
	RoleElevated
	RoleHighest
)

func (r Role) String() string {
	switch r {
	case RoleBasic:
		return "basic"
	case RoleElevated:
		return "elevated"
	case RoleHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// ParseRole maps a role name back to its tier.
func ParseRole(name string) (Role, error) {
	switch name {
	case "basic":
		return RoleBasic, nil
	case "elevated":
		return RoleElevated, nil
	case "highest":
		return RoleHighest, nil
	default:
		return 0, fmt.Errorf("unknown role %q", name)
	}
}

// Capability names one gated admin action.
type Capability int

const (
	CapViewRoster Capability = iota
	CapAddMember
	CapRemoveMember
	CapEditContent
	CapBroadcast
	CapClearMessages
	CapReply
)

// capabilities is the minimum role required per action. One table instead of
// action-code prefix branching.
var capabilities = map[Capability]Role{
	CapViewRoster:    RoleBasic,
	CapAddMember:     RoleBasic,
	CapRemoveMember:  RoleHighest,
	CapEditContent:   RoleBasic,
	CapBroadcast:     RoleBasic,
	CapClearMessages: RoleBasic,
	CapReply:         RoleBasic,
}

// Can reports whether the role meets the capability's minimum tier.
func (r Role) Can(c Capability) bool {
	return r >= capabilities[c]
}

// RosterDocument maps chat IDs (as decimal strings, JSON keys) to role names.
type RosterDocument struct {
	Members map[string]string `json:"members"`
}

// Member is one resolved roster entry.
type Member struct {
	ChatID int64
	Role   Role
}

// RosterStore maintains the admin roster document.
type RosterStore struct {
	store *Store
}

func NewRosterStore(s *Store) *RosterStore {
	return &RosterStore{store: s}
}

func decodeRoster(body []byte) (*RosterDocument, error) {
	doc := &RosterDocument{Members: make(map[string]string)}
	if len(body) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, err
	}
	if doc.Members == nil {
		doc.Members = make(map[string]string)
	}
	return doc, nil
}

// Authenticate resolves the role granted by a successful password check.
// The first person ever authenticated becomes the highest tier and is
// persisted; everyone else gets their stored role, or the basic tier.
func (r *RosterStore) Authenticate(chatID int64) (Role, error) {
	role := RoleBasic
	err := r.store.Update(DocRoster, func(_ int, body []byte) (int, []byte, error) {
		doc, err := decodeRoster(body)
		if err != nil {
			return 0, nil, err
		}

		key := strconv.FormatInt(chatID, 10)
		if len(doc.Members) == 0 {
			role = RoleHighest
			doc.Members[key] = role.String()
		} else if name, ok := doc.Members[key]; ok {
			if parsed, err := ParseRole(name); err == nil {
				role = parsed
			}
		}

		encoded, err := json.Marshal(doc)
		return rosterSchemaVersion, encoded, err
	})
	if err != nil {
		return 0, err
	}
	return role, nil
}

// Members lists the roster ordered by chat ID.
func (r *RosterStore) Members() ([]Member, error) {
	_, body, err := r.store.Load(DocRoster)
	if err != nil {
		if err == ErrNoDocument {
			return nil, nil
		}
		return nil, err
	}

	doc, err := decodeRoster(body)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(doc.Members))
	for key, name := range doc.Members {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		role, err := ParseRole(name)
		if err != nil {
			continue
		}
		members = append(members, Member{ChatID: chatID, Role: role})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ChatID < members[j].ChatID })
	return members, nil
}

// Add inserts or overwrites a roster entry.
func (r *RosterStore) Add(chatID int64, role Role) error {
	return r.store.Update(DocRoster, func(_ int, body []byte) (int, []byte, error) {
		doc, err := decodeRoster(body)
		if err != nil {
			return 0, nil, err
		}

		doc.Members[strconv.FormatInt(chatID, 10)] = role.String()

		encoded, err := json.Marshal(doc)
		return rosterSchemaVersion, encoded, err
	})
}

// Remove deletes a roster entry. A member may never remove itself.
func (r *RosterStore) Remove(actor, target int64) error {
	if actor == target {
		return ErrSelfRemoval
	}
	return r.store.Update(DocRoster, func(_ int, body []byte) (int, []byte, error) {
		doc, err := decodeRoster(body)
		if err != nil {
			return 0, nil, err
		}

		key := strconv.FormatInt(target, 10)
		if _, ok := doc.Members[key]; !ok {
			return 0, nil, ErrUnknownMember
		}
		delete(doc.Members, key)

		encoded, err := json.Marshal(doc)
		return rosterSchemaVersion, encoded, err
	})
}
