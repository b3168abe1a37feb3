package core

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"golang.org/x/text/encoding/htmlindex"
)

// modinfoXML mirrors the parts of a .modinfo document the manager reads
type modinfoXML struct {
	XMLName    xml.Name `xml:"Mod"`
	ID         string   `xml:"id,attr"`
	Version    string   `xml:"version,attr"`
	Properties *struct {
		Name              string `xml:"Name"`
		Description       string `xml:"Description"`
		Authors           string `xml:"Authors"`
		AffectsSavedGames string `xml:"AffectsSavedGames"`
	} `xml:"Properties"`
	ModManager *struct {
		Name        string `xml:"Name"`
		Description string `xml:"Description"`
	} `xml:"ModManager"`
}

var errNoProperties = errors.New("missing Properties element")

// ParseDescriptor reads the .modinfo file at path.
func ParseDescriptor(path string) (*domain.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	var doc modinfoXML
	if err := decodeXML(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}
	if doc.Properties == nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, errNoProperties)
	}

	d := &domain.Descriptor{
		ID:                strings.TrimSpace(doc.ID),
		Version:           strings.TrimSpace(doc.Version),
		Name:              strings.TrimSpace(doc.Properties.Name),
		Description:       strings.TrimSpace(doc.Properties.Description),
		Authors:           strings.TrimSpace(doc.Properties.Authors),
		AffectsSavedGames: strings.TrimSpace(doc.Properties.AffectsSavedGames) == "1",
	}
	if doc.ModManager != nil {
		d.ManagerName = strings.TrimSpace(doc.ModManager.Name)
		d.ManagerDescription = strings.TrimSpace(doc.ModManager.Description)
	}

	return d, nil
}

// decodeXML unmarshals data, converting documents that declare a non-UTF-8
// encoding such as windows-1252.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	return dec.Decode(v)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// ResolveText picks the display string for a descriptor field: the manager
// override, then the localized value for raw, then raw itself.
func ResolveText(override, raw string, table domain.LocalizationTable) string {
	if override != "" {
		return override
	}
	if text := table[raw]; text != "" {
		return text
	}
	return raw
}
