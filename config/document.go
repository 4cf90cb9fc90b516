// Package config loads, migrates and persists the barrel health configuration document.
package config

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/VisEntities/BarrelHealth/rules"
)

// CurrentVersion is the document version written by this build.
const CurrentVersion = "1.0.0"

// Document is the persisted configuration. Key names are part of the file format and must not change.
type Document struct {
	Version      string  `json:"Version" jsonschema:"description=Version of the plugin that last wrote the file"`
	BarrelGroups []Group `json:"Barrel Groups" jsonschema:"description=Groups in match priority order"`
}

// Group is one health value shared by a list of prefab paths.
type Group struct {
	Health  float64  `json:"Health" jsonschema:"minimum=0"`
	Prefabs []string `json:"Prefabs"`
}

// Default returns the built-in document stamped with CurrentVersion.
func Default() *Document {
	return FromTable(CurrentVersion, rules.DefaultTable())
}

// FromTable builds a document holding the groups of t.
func FromTable(version string, t *rules.Table) *Document {
	doc := &Document{Version: version, BarrelGroups: []Group{}}
	for _, g := range t.Groups() {
		doc.BarrelGroups = append(doc.BarrelGroups, Group{Health: g.Health, Prefabs: g.Prefabs})
	}
	return doc
}

// Table converts the document into an immutable rule table.
func (d *Document) Table() *rules.Table {
	if d == nil {
		return rules.NewTable(nil)
	}
	groups := make([]rules.HealthGroup, 0, len(d.BarrelGroups))
	for _, g := range d.BarrelGroups {
		groups = append(groups, rules.HealthGroup{Health: g.Health, Prefabs: g.Prefabs})
	}
	return rules.NewTable(groups)
}

// Decode parses a JSON document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "failed to decode configuration document")
	}
	return &doc, nil
}

// Encode renders the document as indented JSON with a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode configuration document")
	}
	return append(data, '\n'), nil
}
