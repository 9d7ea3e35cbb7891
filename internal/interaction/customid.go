// Package interaction defines the wire contract of component custom ids and
// the duplicate-event guard. Every component the bot renders carries a
// structured id; anything that fails to parse belongs to someone else and
// is ignored rather than partially recovered.
package interaction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Namespace prefixes every custom id the bot owns.
const Namespace = "rk"

// ComponentKind tags the component family of a custom id.
type ComponentKind string

const (
	KindSelect       ComponentKind = "sel"
	KindSearchSelect ComponentKind = "selsearch"
	KindUserSelect   ComponentKind = "usel"
	KindButton       ComponentKind = "btn"
	KindModal        ComponentKind = "modal"
)

// Button and modal actions.
const (
	ActionFirst            = "first"
	ActionBack             = "back"
	ActionNext             = "next"
	ActionLast             = "last"
	ActionNop              = "nop"
	ActionSwitch           = "switch"
	ActionSearch           = "search"
	ActionBLR              = "blr"
	ActionConfirmBLR       = "confirmblr"
	ActionCancelBLR        = "cancelblr"
	ActionRemoveAll        = "removeall"
	ActionConfirmRemoveAll = "confirmremoveall"
	ActionCancelRemoveAll  = "cancelremoveall"
)

var (
	// ErrNotOurs marks ids outside the bot's namespace.
	ErrNotOurs = errors.New("interaction: foreign custom id")
	// ErrMalformed marks ids in the namespace that do not round-trip.
	ErrMalformed = errors.New("interaction: malformed custom id")
)

// Ref is the parsed form of a custom id: which component family fired, on
// which session, carrying which page snapshot, and (for buttons and modals)
// which action.
type Ref struct {
	Kind      ComponentKind
	Action    string
	SessionID string
	Page      int
}

// String formats the id. Select kinds omit the action segment:
//
//	rk:sel:<sid>:<page>
//	rk:btn:<action>:<sid>:<page>
//	rk:modal:<action>:<sid>:<page>
func (r Ref) String() string {
	switch r.Kind {
	case KindButton, KindModal:
		return fmt.Sprintf("%s:%s:%s:%s:%d", Namespace, r.Kind, r.Action, r.SessionID, r.Page)
	default:
		return fmt.Sprintf("%s:%s:%s:%d", Namespace, r.Kind, r.SessionID, r.Page)
	}
}

// Parse decodes a custom id. It is strict: wrong arity, an unknown kind, or
// a non-numeric page all yield ErrMalformed; a foreign namespace ErrNotOurs.
func Parse(customID string) (Ref, error) {
	parts := strings.Split(customID, ":")
	if len(parts) < 1 || parts[0] != Namespace {
		return Ref{}, ErrNotOurs
	}
	if len(parts) < 4 {
		return Ref{}, ErrMalformed
	}
	kind := ComponentKind(parts[1])
	switch kind {
	case KindSelect, KindSearchSelect, KindUserSelect:
		if len(parts) != 4 {
			return Ref{}, ErrMalformed
		}
		page, err := strconv.Atoi(parts[3])
		if err != nil || page < 0 || parts[2] == "" {
			return Ref{}, ErrMalformed
		}
		return Ref{Kind: kind, SessionID: parts[2], Page: page}, nil
	case KindButton, KindModal:
		if len(parts) != 5 {
			return Ref{}, ErrMalformed
		}
		page, err := strconv.Atoi(parts[4])
		if err != nil || page < 0 || parts[2] == "" || parts[3] == "" {
			return Ref{}, ErrMalformed
		}
		return Ref{Kind: kind, Action: parts[2], SessionID: parts[3], Page: page}, nil
	default:
		return Ref{}, ErrMalformed
	}
}
