package core

import (
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
)

// localizationXML mirrors a game text database file
type localizationXML struct {
	XMLName xml.Name `xml:"Database"`
	Rows    []struct {
		Tag  string `xml:"Tag,attr"`
		Text string `xml:"Text"`
	} `xml:"EnglishText>Row"`
}

// LocalizationDir returns the folder holding English text files for a content root.
func LocalizationDir(contentRoot string) string {
	return filepath.Join(contentRoot, "text", "en_us")
}

// ParseLocalization merges every XML text file under contentRoot/text/en_us.
// Files are read in name order and the first definition of a tag wins.
// It never fails: a missing folder yields an empty table and unreadable
// files are skipped.
func ParseLocalization(contentRoot string, logger *slog.Logger) domain.LocalizationTable {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	table := make(domain.LocalizationTable)
	dir := LocalizationDir(contentRoot)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("reading localization folder", "path", dir, "error", err)
		}
		return table
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := mergeLocalizationFile(path, table); err != nil {
			logger.Warn("skipping localization file", "path", path, "error", err)
		}
	}

	return table
}

func mergeLocalizationFile(path string, table domain.LocalizationTable) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc localizationXML
	if err := decodeXML(data, &doc); err != nil {
		return err
	}

	for _, row := range doc.Rows {
		tag, text := strings.TrimSpace(row.Tag), strings.TrimSpace(row.Text)
		if tag == "" || text == "" {
			continue
		}
		if _, exists := table[tag]; !exists {
			table[tag] = text
		}
	}
	return nil
}
