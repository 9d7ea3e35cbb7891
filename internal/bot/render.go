package bot

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/rolekeeper/rolekeeper/internal/format"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/interaction"
	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

func (s *Service) baseEmbed() gateway.Embed {
	return gateway.Embed{
		FooterText: s.footer,
		Timestamp:  s.now(),
	}
}

// replySession renders the session and posts it as the interaction reply,
// recording the message location for later in-place edits.
func (s *Service) replySession(ctx context.Context, ic gateway.Interaction, sess *session.Session) error {
	msg, err := s.renderSession(ctx, sess)
	if err != nil {
		return err
	}
	sent, err := s.msg.Reply(ctx, ic, msg)
	if err != nil {
		return err
	}
	sess.ChannelID = sent.ChannelID
	sess.MessageID = sent.MessageID
	return nil
}

// refreshSession re-renders the session message in place. Best-effort: a
// failed render or edit never blocks the action that triggered it.
func (s *Service) refreshSession(ctx context.Context, sess *session.Session) {
	msg, err := s.renderSession(ctx, sess)
	if err != nil {
		s.log.Debug("render session", slog.String("session", sess.ID), slog.Any("error", err))
		return
	}
	if err := s.msg.Edit(ctx, sess.ChannelID, sess.MessageID, msg); err != nil {
		s.log.Debug("edit session message", slog.String("session", sess.ID), slog.Any("error", err))
	}
}

func (s *Service) renderSession(ctx context.Context, sess *session.Session) (gateway.Message, error) {
	doc, err := s.store.Load(sess.GuildID)
	if err != nil {
		return gateway.Message{}, err
	}
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return gateway.Message{}, err
	}
	switch sess.Kind {
	case session.KindEditor:
		return s.renderEditor(ctx, sess, v)
	case session.KindBlackRole:
		return s.renderBlackRole(sess, doc, v), nil
	case session.KindBLRConfig:
		return s.renderBLRConfig(sess, doc, v), nil
	case session.KindRoleMembers:
		return s.renderRoleMembers(ctx, sess, v)
	default:
		return gateway.Message{}, fmt.Errorf("bot: unknown session kind %q", sess.Kind)
	}
}

func (s *Service) renderEditor(ctx context.Context, sess *session.Session, v *guildView) (gateway.Message, error) {
	target, err := s.dir.Member(ctx, sess.GuildID, sess.TargetID)
	if err != nil {
		return gateway.Message{}, err
	}
	held := memberRoleIDsSorted(target, v.idx, v.guild.BaseRoleID)
	current := format.None
	if len(held) > 0 {
		current = format.Truncate(format.RoleList(held), format.FieldLimit)
	}

	emb := s.baseEmbed()
	emb.Title = "Member role editor"
	emb.Color = gateway.ColorBlurple
	emb.Fields = []gateway.EmbedField{
		{Name: "Target", Value: "• " + format.MentionUser(sess.TargetID) + " - `" + sess.TargetID + "`"},
		{Name: "Current roles", Value: current},
	}

	opts := roleOptions(sess.CurrentPage(), v.idx, target.HasRole)
	return gateway.Message{
		Embeds: []gateway.Embed{emb},
		Components: []gateway.ActionRow{
			selectRow(sess, "Select to ADD/REMOVE immediately", opts),
			pagerRow(sess),
			toolsRow(sess, toolsOpts{blr: true}),
		},
	}, nil
}

func (s *Service) renderBlackRole(sess *session.Session, doc *store.Document, v *guildView) gateway.Message {
	emb := s.baseEmbed()
	emb.Title = "Role denylist"
	emb.Color = gateway.ColorPurple
	emb.Fields = []gateway.EmbedField{
		{Name: "Denylisted roles", Value: format.Truncate(format.RoleList(doc.BlackRoles), format.FieldLimit)},
	}
	opts := roleOptions(sess.CurrentPage(), v.idx, doc.IsBlackRole)
	return gateway.Message{
		Embeds: []gateway.Embed{emb},
		Components: []gateway.ActionRow{
			selectRow(sess, "Checked roles are on the denylist", opts),
			pagerRow(sess),
			toolsRow(sess, toolsOpts{}),
		},
	}
}

func (s *Service) renderBLRConfig(sess *session.Session, doc *store.Document, v *guildView) gateway.Message {
	mode := "Mode: **keep** (roles spared by the purge)"
	placeholder := "Checked roles will be KEPT"
	switchLabel := "Switch to add"
	list := doc.BLRKeepRoles
	if sess.BLRMode == session.BLRModeAdd {
		mode = "Mode: **add** (roles forced onto the member)"
		placeholder = "Checked roles will be ADDED"
		switchLabel = "Switch to keep"
		list = doc.BLRAddRoles
	}

	emb := s.baseEmbed()
	emb.Title = "BLR configuration"
	emb.Color = gateway.ColorDark
	emb.Description = mode
	emb.Fields = []gateway.EmbedField{
		{Name: "Kept roles", Value: format.Truncate(format.RoleList(doc.BLRKeepRoles), format.FieldLimit)},
		{Name: "Added roles", Value: format.Truncate(format.RoleList(doc.BLRAddRoles), format.FieldLimit)},
	}

	inList := func(id string) bool {
		for _, x := range list {
			if x == id {
				return true
			}
		}
		return false
	}
	opts := roleOptions(sess.CurrentPage(), v.idx, inList)
	return gateway.Message{
		Embeds: []gateway.Embed{emb},
		Components: []gateway.ActionRow{
			selectRow(sess, placeholder, opts),
			pagerRow(sess),
			toolsRow(sess, toolsOpts{switchLabel: switchLabel}),
		},
	}
}

// renderRoleMembers recomputes the page set from live membership first;
// members can gain or lose the role between renders.
func (s *Service) renderRoleMembers(ctx context.Context, sess *session.Session, v *guildView) (gateway.Message, error) {
	role, err := s.dir.Role(ctx, sess.GuildID, sess.RoleID)
	if err != nil {
		return gateway.Message{}, err
	}
	members, err := s.dir.RoleMembers(ctx, sess.GuildID, sess.RoleID)
	if err != nil {
		return gateway.Message{}, err
	}
	names := make(map[string]string, len(members))
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
		names[m.UserID] = m.Username
	}
	sess.SetPages(session.Paginate(ids, session.PageSizeRoleMembers))

	page := sess.CurrentPage()
	list := "*No members on this page*"
	if len(page) > 0 {
		list = format.Truncate(format.UserList(page), format.FieldLimit)
	}

	emb := s.baseEmbed()
	emb.Title = "Role member management"
	emb.Color = gateway.ColorBlurple
	emb.Fields = []gateway.EmbedField{
		{Name: "Role", Value: "• " + format.MentionRole(role.ID) + " - `" + role.ID + "`"},
		{Name: "Members", Value: fmt.Sprintf("**%d** total", len(members))},
		{Name: fmt.Sprintf("Page %d/%d", sess.Page+1, len(sess.Pages)), Value: list},
	}

	var rows []gateway.ActionRow
	if sess.Mode == session.ModeAdd {
		rows = append(rows, gateway.ActionRow{UserSelect: &gateway.UserSelect{
			CustomID:    componentID(interaction.KindUserSelect, sess),
			Placeholder: "Pick members to ADD to the role",
			MinValues:   1,
			MaxValues:   25,
		}})
	} else {
		opts := make([]gateway.SelectOption, 0, len(page))
		for _, uid := range page {
			label := names[uid]
			if label == "" {
				label = uid
			}
			opts = append(opts, gateway.SelectOption{Label: clip(label, 100), Value: uid})
		}
		rows = append(rows, selectRow(sess, "Select members to REMOVE the role from", opts))
	}
	rows = append(rows, pagerRow(sess))
	switchLabel := "Switch to adding members"
	if sess.Mode == session.ModeAdd {
		switchLabel = "Switch to removing members"
	}
	rows = append(rows, toolsRow(sess, toolsOpts{switchLabel: switchLabel, noSearch: true}))

	return gateway.Message{Embeds: []gateway.Embed{emb}, Components: rows}, nil
}

// roleOptions maps role ids to select options; isOn marks the pre-checked
// ones. Unknown ids keep their id as label.
func roleOptions(ids []string, idx map[string]gateway.Role, isOn func(string) bool) []gateway.SelectOption {
	opts := make([]gateway.SelectOption, 0, len(ids))
	for _, id := range ids {
		label := id
		desc := ""
		if r, ok := idx[id]; ok {
			label = r.Name
			desc = fmt.Sprintf("pos:%d", r.Position)
		}
		opts = append(opts, gateway.SelectOption{
			Label:       clip(label, 100),
			Value:       id,
			Description: desc,
			Default:     isOn(id),
		})
	}
	return opts
}

func componentID(kind interaction.ComponentKind, sess *session.Session) string {
	return interaction.Ref{Kind: kind, SessionID: sess.ID, Page: sess.Page}.String()
}

func buttonID(action string, sess *session.Session) string {
	return interaction.Ref{Kind: interaction.KindButton, Action: action, SessionID: sess.ID, Page: sess.Page}.String()
}

// selectRow builds the page select. An empty page yields a disabled menu
// with a filler option, never an empty row.
func selectRow(sess *session.Session, placeholder string, opts []gateway.SelectOption) gateway.ActionRow {
	disabled := len(opts) == 0
	if disabled {
		opts = []gateway.SelectOption{{Label: "No options", Value: "none"}}
		placeholder = "Nothing to select here"
	}
	maxValues := min(25, len(opts))
	return gateway.ActionRow{Select: &gateway.SelectMenu{
		CustomID:    componentID(interaction.KindSelect, sess),
		Placeholder: placeholder,
		MinValues:   0,
		MaxValues:   maxValues,
		Disabled:    disabled,
		Options:     opts,
	}}
}

func pagerRow(sess *session.Session) gateway.ActionRow {
	return gateway.ActionRow{Buttons: []gateway.Button{
		{CustomID: buttonID(interaction.ActionFirst, sess), Label: "<<", Style: gateway.ButtonSecondary},
		{CustomID: buttonID(interaction.ActionBack, sess), Label: "<", Style: gateway.ButtonSecondary},
		{CustomID: buttonID(interaction.ActionNop, sess), Label: fmt.Sprintf("Page %d/%d", sess.Page+1, len(sess.Pages)), Style: gateway.ButtonSecondary, Disabled: true},
		{CustomID: buttonID(interaction.ActionNext, sess), Label: ">", Style: gateway.ButtonSecondary},
		{CustomID: buttonID(interaction.ActionLast, sess), Label: ">>", Style: gateway.ButtonSecondary},
	}}
}

type toolsOpts struct {
	switchLabel string
	blr         bool
	noSearch    bool
}

func toolsRow(sess *session.Session, o toolsOpts) gateway.ActionRow {
	var buttons []gateway.Button
	if !o.noSearch {
		buttons = append(buttons, gateway.Button{
			CustomID: buttonID(interaction.ActionSearch, sess),
			Label:    "Search",
			Style:    gateway.ButtonPrimary,
		})
	}
	buttons = append(buttons, gateway.Button{
		CustomID: buttonID(interaction.ActionRemoveAll, sess),
		Label:    "Remove all",
		Style:    gateway.ButtonDanger,
	})
	if o.blr {
		buttons = append(buttons, gateway.Button{
			CustomID: buttonID(interaction.ActionBLR, sess),
			Label:    "BLR",
			Style:    gateway.ButtonDanger,
		})
	}
	if o.switchLabel != "" {
		buttons = append(buttons, gateway.Button{
			CustomID: buttonID(interaction.ActionSwitch, sess),
			Label:    o.switchLabel,
			Style:    gateway.ButtonSecondary,
		})
	}
	return gateway.ActionRow{Buttons: buttons}
}

// clip hard-caps s at n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
