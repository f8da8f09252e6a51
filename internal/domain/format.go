package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DescriptionLimit is the longest description (in runes) rendered unmodified.
	DescriptionLimit = 100
	descriptionKeep  = DescriptionLimit - 3

	// Separator is the short rule between a reply's header and its stats.
	Separator = "───"
)

// FormatCount renders a counter the way replies show it:
// 999 -> "999", 2000 -> "2K", 2500 -> "2.5K".
func FormatCount(count int64) string {
	if count < 1000 {
		return strconv.FormatInt(count, 10)
	}
	if count%1000 == 0 {
		return strconv.FormatInt(count/1000, 10) + "K"
	}
	return fmt.Sprintf("%.1fK", float64(count)/1000)
}

// CleanDescription flattens a description to one line and caps it at
// DescriptionLimit runes, keeping the first 97 and appending "...".
func CleanDescription(desc string) string {
	desc = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(desc)
	desc = strings.TrimSpace(desc)

	runes := []rune(desc)
	if len(runes) > DescriptionLimit {
		return string(runes[:descriptionKeep]) + "..."
	}
	return desc
}

// DescriptionLine returns prefix followed by the cleaned description.
// When the description is empty it returns placeholder, which may itself be empty
// to signal that the line should be omitted.
func DescriptionLine(prefix, desc, placeholder string) string {
	clean := CleanDescription(desc)
	if clean == "" {
		return placeholder
	}
	return prefix + clean
}
