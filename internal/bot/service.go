// Package bot is the interactive engine: slash command handlers, the
// component router, and the session UI rendering. It talks to the platform
// only through the gateway interfaces.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"time"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/blr"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/hierarchy"
	"github.com/rolekeeper/rolekeeper/internal/interaction"
	"github.com/rolekeeper/rolekeeper/internal/mutation"
	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

// Transient notices shown to the actor only.
const (
	noticeDeniedWL       = "Access denied (WL required)."
	noticeDeniedOwner    = "Access denied (OWNER required)."
	noticeDeniedSys      = "Access denied (SYS required)."
	noticeDeniedSysPlus  = "Access denied (SYS+ required)."
	noticeSessionExpired = "Session expired. Run the command again."
	noticeNotYours       = "This panel is not yours."
	noticeNeedManage     = "The bot needs the Manage Roles permission."
	noticeCannotEdit     = "You cannot edit this member's roles."
	noticeTargetBLR      = "This member is under BLR."
	noticeRoleDenied     = "This role is denylisted and cannot be managed here."
	noticeRoleAbove      = "This role sits above you or the bot."
	noticeNoManageable   = "No manageable roles (or all of them are denylisted)."
	noticeAddFailed      = "Could not add this role."
	noticeInternal       = "Something went wrong. Try again."
)

const defaultFooter = "Role Manager"

// Deps bundles the collaborators a Service needs.
type Deps struct {
	Store    *store.Store
	Sessions *session.Store
	Engine   *mutation.Engine
	Enforcer *blr.Enforcer
	Audit    *audit.Emitter
	Dir      gateway.Directory
	Roles    gateway.RoleManager
	Msg      gateway.Messenger
	Guard    interaction.Guard
	Log      *slog.Logger
	Footer   string
	// SupportURL, when non-empty, adds a link button to the help reply.
	SupportURL string
	Now        func() time.Time
}

// Service handles every inbound platform event.
type Service struct {
	store      *store.Store
	sessions   *session.Store
	engine     *mutation.Engine
	enforcer   *blr.Enforcer
	audit      *audit.Emitter
	dir        gateway.Directory
	roles      gateway.RoleManager
	msg        gateway.Messenger
	guard      interaction.Guard
	log        *slog.Logger
	footer     string
	supportURL string
	now        func() time.Time
}

// NewService constructs the bot engine.
func NewService(d Deps) *Service {
	if d.Footer == "" {
		d.Footer = defaultFooter
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		store:      d.Store,
		sessions:   d.Sessions,
		engine:     d.Engine,
		enforcer:   d.Enforcer,
		audit:      d.Audit,
		dir:        d.Dir,
		roles:      d.Roles,
		msg:        d.Msg,
		guard:      d.Guard,
		log:        d.Log,
		footer:     d.Footer,
		supportURL: d.SupportURL,
		now:        d.Now,
	}
}

// Run consumes the event stream until the context is cancelled or the
// channel closes. Events are handled one at a time.
func (s *Service) Run(ctx context.Context, events <-chan gateway.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ctx, ev)
		}
	}
}

// Handle dispatches one event. Panics and handler errors surface to the
// actor as a generic transient notice; state written before the failure
// point stays written.
func (s *Service) Handle(ctx context.Context, ev gateway.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			if ic, ok := eventInteraction(ev); ok {
				_ = s.msg.ReplyEphemeral(ctx, ic, noticeInternal)
			}
		}
	}()

	var err error
	switch e := ev.(type) {
	case gateway.CommandEvent:
		err = s.handleCommand(ctx, e)
	case gateway.ComponentEvent:
		err = s.handleComponent(ctx, e)
	case gateway.ModalSubmitEvent:
		err = s.handleModal(ctx, e)
	case gateway.MemberJoinEvent:
		s.enforcer.OnMemberJoin(ctx, e.Member)
	case gateway.MemberUpdateEvent:
		s.enforcer.OnMemberUpdate(ctx, e.Member)
	}
	if err != nil {
		s.log.Error("handle event", slog.Any("error", err))
		if ic, ok := eventInteraction(ev); ok {
			_ = s.msg.ReplyEphemeral(ctx, ic, noticeInternal)
		}
	}
}

func eventInteraction(ev gateway.Event) (gateway.Interaction, bool) {
	switch e := ev.(type) {
	case gateway.CommandEvent:
		return e.Interaction, true
	case gateway.ComponentEvent:
		return e.Interaction, true
	case gateway.ModalSubmitEvent:
		return e.Interaction, true
	default:
		return gateway.Interaction{}, false
	}
}

// refuse replies with a transient refusal and reports handled.
func (s *Service) refuse(ctx context.Context, ic gateway.Interaction, notice string) error {
	return s.msg.ReplyEphemeral(ctx, ic, notice)
}

// requireTier loads nothing; callers pass the already loaded document.
func (s *Service) requireTier(ctx context.Context, ic gateway.Interaction, doc *store.Document, min hierarchy.Tier, notice string) (bool, error) {
	if hierarchy.HasTier(doc, ic.Actor.ID, min) {
		return true, nil
	}
	return false, s.refuse(ctx, ic, notice)
}

// guildView is the resolved role landscape of a guild for one interaction.
type guildView struct {
	guild gateway.Guild
	roles []gateway.Role
	idx   hierarchy.RoleIndex
	bot   gateway.Member
	perm  bool
}

func (s *Service) viewGuild(ctx context.Context, guildID string) (*guildView, error) {
	guild, err := s.dir.Guild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("bot: resolve guild: %w", err)
	}
	roles, err := s.dir.Roles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("bot: list roles: %w", err)
	}
	// The platform does not guarantee listing order; every pool derived
	// from the view expects highest position first.
	slices.SortFunc(roles, func(a, b gateway.Role) int {
		return b.Position - a.Position
	})
	bot, err := s.dir.BotMember(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("bot: resolve bot member: %w", err)
	}
	perm, err := s.dir.BotHasManageRoles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("bot: resolve permissions: %w", err)
	}
	return &guildView{
		guild: guild,
		roles: roles,
		idx:   hierarchy.NewRoleIndex(roles),
		bot:   bot,
		perm:  perm,
	}, nil
}

// manageableRoleIDs returns the ids of roles the actor can administer via
// the bot, highest position first. Denylisted roles are filtered out unless
// the actor is SYS or above.
func (s *Service) manageableRoleIDs(v *guildView, doc *store.Document, actor gateway.Member) []string {
	includeDenied := hierarchy.HasTier(doc, actor.UserID, hierarchy.TierSys)
	var out []string
	for _, r := range v.roles {
		if !hierarchy.RoleManageableBy(v.idx, actor, v.bot, r, v.guild.BaseRoleID) {
			continue
		}
		if !includeDenied && doc.IsBlackRole(r.ID) {
			continue
		}
		out = append(out, r.ID)
	}
	return out
}

// allRoleIDs returns every role id except the base role, highest first.
func (v *guildView) allRoleIDs() []string {
	var out []string
	for _, r := range v.roles {
		if r.ID == v.guild.BaseRoleID {
			continue
		}
		out = append(out, r.ID)
	}
	return out
}

// memberRoleIDsSorted returns the member's roles minus the base role,
// ordered by descending position.
func memberRoleIDsSorted(m gateway.Member, idx hierarchy.RoleIndex, baseRoleID string) []string {
	ids := make([]string, 0, len(m.RoleIDs))
	for _, id := range m.RoleIDs {
		if id != baseRoleID {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b string) int {
		return idx[b].Position - idx[a].Position
	})
	return ids
}

// resolveSession maps the parsed ref to a live session owned by the actor.
// On refusal the notice is already sent and the session is nil.
func (s *Service) resolveSession(ctx context.Context, ic gateway.Interaction, ref interaction.Ref) (*session.Session, error) {
	sess, err := s.sessions.Resolve(ref.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return nil, s.refuse(ctx, ic, noticeSessionExpired)
		}
		return nil, err
	}
	if ic.Actor.ID != sess.ActorID {
		return nil, s.refuse(ctx, ic, noticeNotYours)
	}
	return sess, nil
}
