package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/mattn/go-runewidth"
)

// confirm asks a yes/no question on out and reads the answer from stdin.
// Anything but y/yes counts as no. --yes answers for the user.
func confirm(out io.Writer, question string) bool {
	if assumeYes {
		return true
	}

	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := stdin.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// collisionQuestion words the overwrite prompt for an install whose folder name is taken.
func collisionQuestion(c domain.Collision) string {
	where := "disabled"
	if c.ExistingEnabled {
		where = "enabled"
	}

	q := fmt.Sprintf("%q is already installed (%s)", c.Name, where)
	if c.ExistingVersion != "" && c.IncomingVersion != "" {
		q += fmt.Sprintf(": %s -> %s", c.ExistingVersion, c.IncomingVersion)
		if change := c.Change(); change != "" {
			q += " (" + change + ")"
		}
	}
	return q + ". Overwrite?"
}

// stateLabel returns "enabled" or "disabled"
func stateLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// truncate shortens s to maxLen terminal columns without splitting characters.
func truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
