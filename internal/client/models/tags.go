package models

import "strings"

// PredefinedTags are offered by the client when tagging a reading.
var PredefinedTags = []string{
	"Fasting", "Pre-Meal", "Post-Meal", "Exercise", "Bedtime",
	"Morning", "Afternoon", "Evening", "Night",
	"Sick", "Stressed", "Travel",
}

// JoinTags trims tags, drops blanks and joins the rest with commas.
// It returns nil when nothing is left.
func JoinTags(tags []string) *string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	s := strings.Join(kept, ",")
	return &s
}

// SplitTags is the inverse of JoinTags.
func SplitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
