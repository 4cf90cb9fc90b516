package config

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/wI2L/jsondiff"
)

// firstReleaseVersion is the oldest document layout that is still read as-is. Anything older is replaced by the
// default document during migration.
const firstReleaseVersion = "1.0.0"

// Loader reads the document from a Store, migrates it when it was written by an older version and writes the
// normalized result back.
type Loader struct {
	store   Store
	log     zerolog.Logger
	version string
}

type LoaderOption func(*Loader)

// WithLogger sets the logger used to report fallbacks, migrations and save failures.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = logger
	}
}

// WithVersion overrides the running version that stored documents are compared against.
func WithVersion(version string) LoaderOption {
	return func(l *Loader) {
		l.version = version
	}
}

func NewLoader(store Store, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:   store,
		log:     zerolog.Nop(),
		version: CurrentVersion,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load always returns a usable document. A missing or unparseable document is replaced by the default one. The
// result is saved back unconditionally; save failures are logged and otherwise ignored.
func (l *Loader) Load(ctx context.Context) *Document {
	raw, err := l.store.Read(ctx)
	var doc *Document
	switch {
	case eris.Is(err, ErrDocumentNotFound):
		l.log.Info().Msg("No configuration found, creating default configuration")
		doc = l.defaultDocument()
	case err != nil:
		l.log.Warn().Err(err).Msg("Failed to read configuration, using defaults")
		doc = l.defaultDocument()
	default:
		doc, err = Decode(raw)
		if err != nil {
			l.log.Warn().Err(err).Msg("Configuration is corrupt, using defaults")
			doc = l.defaultDocument()
		}
	}

	if strings.Compare(doc.Version, l.version) < 0 {
		doc = l.migrate(doc)
	}
	if doc.BarrelGroups == nil {
		l.log.Warn().Msg("Configuration has no barrel groups, using default groups")
		doc.BarrelGroups = Default().BarrelGroups
	}

	l.save(ctx, raw, doc)
	return doc
}

func (l *Loader) defaultDocument() *Document {
	doc := Default()
	doc.Version = l.version
	return doc
}

func (l *Loader) migrate(doc *Document) *Document {
	l.log.Warn().Msg("Config changes detected! Updating...")

	from := doc.Version
	if strings.Compare(doc.Version, firstReleaseVersion) < 0 {
		doc = Default()
	}
	doc.Version = l.version

	l.log.Warn().Str("from", from).Str("to", l.version).Msg("Config update complete!")
	return doc
}

func (l *Loader) save(ctx context.Context, previous []byte, doc *Document) {
	data, err := Encode(doc)
	if err != nil {
		l.log.Error().Err(err).Msg("Failed to encode configuration")
		return
	}

	if previous != nil && !bytes.Equal(previous, data) {
		if patch, err := jsondiff.CompareJSON(previous, data); err == nil {
			l.log.Debug().Str("patch", patch.String()).Msg("Normalized configuration")
		}
	}

	if err = l.store.Write(ctx, data); err != nil {
		l.log.Error().Err(err).Msg("Failed to save configuration")
	}
}
