// Package format renders platform mention markup and list snippets.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// FieldLimit is the platform's embed field value cap.
const FieldLimit = 1024

// None is the placeholder for empty lists.
const None = "*None*"

// MentionUser renders a user mention.
func MentionUser(id string) string { return "<@" + id + ">" }

// MentionRole renders a role mention.
func MentionRole(id string) string { return "<@&" + id + ">" }

// MentionChannel renders a channel mention.
func MentionChannel(id string) string { return "<#" + id + ">" }

// UserList renders ids as a bulleted mention list, or None when empty.
func UserList(ids []string) string {
	return list(ids, MentionUser)
}

// RoleList renders ids as a bulleted mention list, or None when empty.
func RoleList(ids []string) string {
	return list(ids, MentionRole)
}

func list(ids []string, mention func(string) string) string {
	if len(ids) == 0 {
		return None
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("• %s - `%s`", mention(id), id))
	}
	return strings.Join(lines, "\n")
}

// Truncate caps s at limit bytes, marking the cut with an ellipsis. The cut
// never splits a UTF-8 sequence.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit - 4
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + " …"
}

var folder = cases.Fold()

// Fold case-folds s for caseless matching in role search.
func Fold(s string) string {
	return folder.String(s)
}
