// Package typeid mints the prefixed, sortable identifiers used for shapes,
// editing sessions and stored exports.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixShape   = "shape"
	PrefixSession = "sess"
	PrefixExport  = "exp"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewShapeID() string   { return New(PrefixShape) }
func NewSessionID() string { return New(PrefixSession) }
func NewExportID() string  { return New(PrefixExport) }

// Prefix reports the prefix of id, or "" when id is not a typeid. Scenes
// saved by older builds carry plain numeric shape ids.
func Prefix(id string) string {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return ""
	}
	return parsed.Prefix()
}

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid %s id %q: %w", expectedPrefix, id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("id %q has prefix %q, want %q", id, parsed.Prefix(), expectedPrefix)
	}
	return nil
}
