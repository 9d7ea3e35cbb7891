// Package session owns the table of short-lived interactive editing
// sessions. Entries live purely in memory and die after five minutes of
// inactivity; expiry is detected lazily on next use, never by a timer.
package session

import (
	"crypto/rand"
	"encoding/hex"
)

// Kind discriminates the interactive flows a session can drive.
type Kind string

const (
	KindEditor      Kind = "editor"
	KindBlackRole   Kind = "blackrole"
	KindBLRConfig   Kind = "blrconfig"
	KindRoleMembers Kind = "rolemembers"
)

// Member-list mode of a rolemembers session.
const (
	ModeRemove = "remove"
	ModeAdd    = "add"
)

// Target list of a blrconfig session.
const (
	BLRModeKeep = "keep"
	BLRModeAdd  = "add"
)

// Session is one live interactive flow, bound to the actor who opened it.
// Pages hold role ids or user ids depending on Kind; rolemembers pages are
// recomputed from live membership on every render.
type Session struct {
	ID      string
	Kind    Kind
	GuildID string
	ActorID string

	TargetID string // editor: member being edited
	RoleID   string // rolemembers: role being managed

	Pages [][]string
	Page  int

	Mode    string // rolemembers: remove | add
	BLRMode string // blrconfig: keep | add

	// Location of the rendered UI message, for in-place edits.
	ChannelID string
	MessageID string

	// Most recent search-modal result pool.
	SearchResults []string

	createdAt int64 // unix nanos, managed by the Store
}

// CurrentPage returns the page the session is on, or an empty page.
func (s *Session) CurrentPage() []string {
	if s.Page < 0 || s.Page >= len(s.Pages) {
		return nil
	}
	return s.Pages[s.Page]
}

// PageAt returns the given page if it exists.
func (s *Session) PageAt(i int) []string {
	if i < 0 || i >= len(s.Pages) {
		return nil
	}
	return s.Pages[i]
}

// SetPages replaces the page set and re-clamps the cursor; a page index
// that was valid before a recompute may not be afterwards.
func (s *Session) SetPages(pages [][]string) {
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	s.Pages = pages
	s.Page = Clamp(s.Page, len(pages))
}

func newID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("session: system randomness unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
