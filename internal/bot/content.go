package bot

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	DocContent = "content"

	// Version 1 stored every section, services included, as a plain string.
	// Version 2 stores services as a list of records. The version field is
	// explicit so nothing guesses types at read time.
	contentSchemaVersion = 2
)

// Section is one editable content entry: text, a photo, or both.
type Section struct {
	Text    string `json:"text,omitempty"`
	PhotoID string `json:"photo_id,omitempty"`
}

// Service is one entry of the services catalog.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// ContentDocument is the bot's whole editable content.
type ContentDocument struct {
	Sections map[string]Section `json:"sections"`
	Services []Service          `json:"services"`
}

// SectionNames returns the section names in stable order, services last.
func (d *ContentDocument) SectionNames() []string {
	names := make([]string, 0, len(d.Sections)+1)
	for name := range d.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, "services")
}

// RenderServices formats the services catalog as a reply.
func (d *ContentDocument) RenderServices() string {
	if len(d.Services) == 0 {
		return "Texte non défini."
	}

	var b strings.Builder
	b.WriteString("💼 Nos Services :")
	for i, svc := range d.Services {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, svc.Name))
		if svc.Description != "" {
			b.WriteString(" — " + svc.Description)
		}
		if svc.Price != "" {
			b.WriteString(" (" + svc.Price + ")")
		}
	}
	return b.String()
}

func defaultContent() *ContentDocument {
	return &ContentDocument{
		Sections: map[string]Section{
			"welcome": {Text: "👋 Bonjour et bienvenue sur notre bot !\nChoisissez une option :"},
			"contact": {Text: "📞 Contactez-nous : contact@monentreprise.com\nTéléphone : +33 6 12 34 56 78"},
		},
		Services: []Service{
			{Name: "Développement Web"},
			{Name: "Design"},
			{Name: "Marketing Digital"},
		},
	}
}

// splitServices turns free text into service records, one per non-empty line.
func splitServices(text string) []Service {
	var services []Service
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		services = append(services, Service{Name: line})
	}
	return services
}

// ContentStore reads and writes the content document, migrating old shapes.
type ContentStore struct {
	store *Store
}

func NewContentStore(s *Store) *ContentStore {
	return &ContentStore{store: s}
}

func decodeContent(version int, body []byte) (*ContentDocument, error) {
	switch version {
	case 0:
		return defaultContent(), nil
	case 1:
		// Flat string map: every key a text section, services one string.
		var flat map[string]string
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, err
		}
		doc := &ContentDocument{Sections: make(map[string]Section)}
		for name, text := range flat {
			if name == "services" {
				doc.Services = splitServices(text)
				continue
			}
			doc.Sections[name] = Section{Text: text}
		}
		return doc, nil
	case contentSchemaVersion:
		var doc ContentDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		if doc.Sections == nil {
			doc.Sections = make(map[string]Section)
		}
		return &doc, nil
	default:
		return nil, fmt.Errorf("unsupported content schema version %d", version)
	}
}

// Load returns the content document, persisting any pending migration so the
// stored shape always matches the current version.
func (c *ContentStore) Load() (*ContentDocument, error) {
	var doc *ContentDocument
	err := c.store.Update(DocContent, func(version int, body []byte) (int, []byte, error) {
		decoded, err := decodeContent(version, body)
		if err != nil {
			return 0, nil, err
		}
		doc = decoded
		encoded, err := json.Marshal(decoded)
		return contentSchemaVersion, encoded, err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SetSection overwrites one named section.
func (c *ContentStore) SetSection(name string, section Section) error {
	return c.store.Update(DocContent, func(version int, body []byte) (int, []byte, error) {
		doc, err := decodeContent(version, body)
		if err != nil {
			return 0, nil, err
		}
		if name == "services" {
			doc.Services = splitServices(section.Text)
		} else {
			doc.Sections[name] = section
		}
		encoded, err := json.Marshal(doc)
		return contentSchemaVersion, encoded, err
	})
}
