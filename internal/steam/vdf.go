package steam

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// VDFMap is a parsed VDF key-value structure (nested maps and string values).
type VDFMap map[string]interface{}

// ParseVDF reads Valve Key-Value format from r and returns the root map.
func ParseVDF(r io.Reader) (VDFMap, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanVDFTokens)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vdf: %w", err)
	}
	if len(tokens) == 0 {
		return VDFMap{}, nil
	}

	key := tokens[0]
	if len(tokens) < 2 {
		return nil, fmt.Errorf("vdf: unexpected end after key %q", key)
	}
	if tokens[1] != "{" {
		return VDFMap{key: tokens[1]}, nil
	}

	pos := 2
	inner, err := parseVDFObject(tokens, &pos)
	if err != nil {
		return nil, err
	}
	return VDFMap{key: inner}, nil
}

// parseVDFObject parses key-value pairs until "}" and advances pos past it.
func parseVDFObject(tokens []string, pos *int) (VDFMap, error) {
	result := make(VDFMap)
	for *pos < len(tokens) && tokens[*pos] != "}" {
		key := tokens[*pos]
		*pos++
		if *pos >= len(tokens) {
			return nil, fmt.Errorf("vdf: unexpected end after key %q", key)
		}
		if tokens[*pos] == "{" {
			*pos++
			inner, err := parseVDFObject(tokens, pos)
			if err != nil {
				return nil, err
			}
			result[key] = inner
			continue
		}
		result[key] = tokens[*pos]
		*pos++
	}
	if *pos < len(tokens) {
		*pos++
	}
	return result, nil
}

// scanVDFTokens splits on quoted strings and the braces { }.
func scanVDFTokens(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && unicode.IsSpace(rune(data[start])) {
		start++
	}
	if start >= len(data) {
		if atEOF {
			return start, nil, nil
		}
		return 0, nil, nil
	}
	data = data[start:]

	switch data[0] {
	case '"':
		for i := 1; i < len(data); i++ {
			if data[i] == '\\' && i+1 < len(data) {
				i++
				continue
			}
			if data[i] == '"' {
				return start + i + 1, data[1:i], nil
			}
		}
		if atEOF {
			return start + len(data), nil, fmt.Errorf("vdf: unclosed quote")
		}
		return 0, nil, nil

	case '{', '}':
		return start + 1, data[:1], nil
	}

	// Unquoted token runs to the next space or quote
	i := 0
	for i < len(data) && !unicode.IsSpace(rune(data[i])) && data[i] != '"' {
		i++
	}
	if i == len(data) && !atEOF {
		return 0, nil, nil
	}
	return start + i, data[:i], nil
}

// libraryPaths extracts library paths from a parsed libraryfolders.vdf.
// Entries are keyed "0", "1", ...; gaps left by removed libraries are skipped.
func libraryPaths(root VDFMap) []string {
	lf, ok := root["libraryfolders"].(VDFMap)
	if !ok {
		return nil
	}

	var indexes []int
	for key := range lf {
		if n, err := strconv.Atoi(key); err == nil {
			indexes = append(indexes, n)
		}
	}
	sort.Ints(indexes)

	var paths []string
	for _, n := range indexes {
		entry, ok := lf[strconv.Itoa(n)].(VDFMap)
		if !ok {
			continue
		}
		if p, ok := entry["path"].(string); ok && p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// AppManifest holds the fields of an appmanifest_<appid>.acf file that matter here.
type AppManifest struct {
	AppID      string
	Name       string
	InstallDir string
}

// ParseAppManifest parses appmanifest_*.acf content.
func ParseAppManifest(data string) (AppManifest, error) {
	root, err := ParseVDF(strings.NewReader(data))
	if err != nil {
		return AppManifest{}, err
	}
	state, ok := root["AppState"].(VDFMap)
	if !ok {
		return AppManifest{}, fmt.Errorf("vdf: missing AppState")
	}

	var m AppManifest
	m.AppID, _ = state["appid"].(string)
	m.Name, _ = state["name"].(string)
	m.InstallDir, _ = state["installdir"].(string)
	return m, nil
}
