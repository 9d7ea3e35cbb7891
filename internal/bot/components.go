package bot

import (
	"context"
	"slices"
	"strings"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/format"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/hierarchy"
	"github.com/rolekeeper/rolekeeper/internal/interaction"
	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

func (s *Service) handleComponent(ctx context.Context, ev gateway.ComponentEvent) error {
	if !s.guard.First(ctx, ev.ID) {
		return nil
	}
	ref, err := interaction.Parse(ev.CustomID)
	if err != nil {
		// Foreign or garbled ids belong to no handler.
		return nil
	}
	sess, err := s.resolveSession(ctx, ev.Interaction, ref)
	if sess == nil {
		return err
	}

	switch ref.Kind {
	case interaction.KindButton:
		return s.handleButton(ctx, ev, ref, sess)
	case interaction.KindSelect:
		return s.handleSelect(ctx, ev, ref, sess)
	case interaction.KindSearchSelect:
		return s.handleSearchSelect(ctx, ev, sess)
	case interaction.KindUserSelect:
		return s.handleUserSelect(ctx, ev, sess)
	}
	return nil
}

// ---- buttons ----

func (s *Service) handleButton(ctx context.Context, ev gateway.ComponentEvent, ref interaction.Ref, sess *session.Session) error {
	switch ref.Action {
	case interaction.ActionFirst, interaction.ActionBack, interaction.ActionNext, interaction.ActionLast:
		switch ref.Action {
		case interaction.ActionFirst:
			sess.Page = 0
		case interaction.ActionBack:
			sess.Page = max(0, sess.Page-1)
		case interaction.ActionNext:
			sess.Page = min(len(sess.Pages)-1, sess.Page+1)
		case interaction.ActionLast:
			sess.Page = max(0, len(sess.Pages)-1)
		}
		s.sessions.Touch(sess.ID)
		s.refreshSession(ctx, sess)
		return s.msg.Ack(ctx, ev.Interaction)

	case interaction.ActionNop:
		return s.msg.Ack(ctx, ev.Interaction)

	case interaction.ActionSwitch:
		switch sess.Kind {
		case session.KindBLRConfig:
			if sess.BLRMode == session.BLRModeKeep {
				sess.BLRMode = session.BLRModeAdd
			} else {
				sess.BLRMode = session.BLRModeKeep
			}
		case session.KindRoleMembers:
			if sess.Mode == session.ModeRemove {
				sess.Mode = session.ModeAdd
			} else {
				sess.Mode = session.ModeRemove
			}
		}
		s.sessions.Touch(sess.ID)
		s.refreshSession(ctx, sess)
		return s.msg.Ack(ctx, ev.Interaction)

	case interaction.ActionSearch:
		modal := gateway.Modal{
			CustomID: interaction.Ref{
				Kind: interaction.KindModal, Action: interaction.ActionSearch,
				SessionID: sess.ID, Page: sess.Page,
			}.String(),
			Title: "Search roles",
			Inputs: []gateway.TextInput{{
				CustomID:  "q",
				Label:     "Role name or id (min 2 characters)",
				MinLength: 2,
				Required:  true,
			}},
		}
		s.sessions.Touch(sess.ID)
		return s.msg.ShowModal(ctx, ev.Interaction, modal)

	case interaction.ActionBLR:
		return s.handleBLRPrompt(ctx, ev, sess)
	case interaction.ActionConfirmBLR, interaction.ActionCancelBLR:
		return s.handleBLRConfirm(ctx, ev, ref, sess)
	case interaction.ActionRemoveAll:
		return s.handleRemoveAllPrompt(ctx, ev, sess)
	case interaction.ActionConfirmRemoveAll, interaction.ActionCancelRemoveAll:
		return s.handleRemoveAllConfirm(ctx, ev, ref, sess)
	}
	return nil
}

// handleBLRPrompt opens the confirm/cancel prompt as a separate reply; the
// session message stays untouched until confirmation.
func (s *Service) handleBLRPrompt(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session) error {
	if sess.Kind != session.KindEditor {
		return nil
	}
	doc, err := s.store.Load(sess.GuildID)
	if err != nil {
		return err
	}
	if !hierarchy.HasTier(doc, sess.ActorID, hierarchy.TierWL) {
		return s.refuse(ctx, ev.Interaction, noticeDeniedWL)
	}
	emb := s.baseEmbed()
	emb.Title = "Confirm BLR"
	emb.Color = gateway.ColorRed
	emb.Description = "Apply **BLR** to " + format.MentionUser(sess.TargetID) + "?\n" +
		"This purges unauthorized roles and assigns the configured ones."
	_, err = s.msg.Reply(ctx, ev.Interaction, gateway.Message{
		Embeds:     []gateway.Embed{emb},
		Components: []gateway.ActionRow{confirmRow(sess, interaction.ActionConfirmBLR, interaction.ActionCancelBLR)},
	})
	return err
}

func (s *Service) handleBLRConfirm(ctx context.Context, ev gateway.ComponentEvent, ref interaction.Ref, sess *session.Session) error {
	if sess.Kind != session.KindEditor {
		return nil
	}
	if ref.Action == interaction.ActionCancelBLR {
		emb := s.baseEmbed()
		emb.Title = "BLR cancelled"
		emb.Color = gateway.ColorRed
		return s.msg.Update(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
	}
	target, err := s.dir.Member(ctx, sess.GuildID, sess.TargetID)
	if err != nil {
		return err
	}
	res := s.enforcer.Apply(ctx, sess.GuildID, sess.ActorID, target)
	s.refreshSession(ctx, sess)

	emb := s.baseEmbed()
	emb.Title = "BLR applied"
	emb.Color = gateway.ColorGreen
	emb.Fields = []gateway.EmbedField{
		{Name: "Member", Value: "• " + format.MentionUser(sess.TargetID) + " - `" + sess.TargetID + "`"},
		{Name: "Roles removed", Value: format.Truncate(format.RoleList(res.Removed), format.FieldLimit)},
		{Name: "Roles added", Value: format.Truncate(format.RoleList(res.Added), format.FieldLimit)},
	}
	return s.msg.Update(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
}

func (s *Service) handleRemoveAllPrompt(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session) error {
	var desc string
	switch sess.Kind {
	case session.KindEditor:
		desc = "Really remove **every manageable role** from " + format.MentionUser(sess.TargetID) + "?"
	case session.KindBlackRole:
		desc = "Really **clear the entire role denylist**?"
	case session.KindBLRConfig:
		list := "keep"
		if sess.BLRMode == session.BLRModeAdd {
			list = "add"
		}
		desc = "Really clear the whole **" + list + "** list?"
	case session.KindRoleMembers:
		desc = "Really remove the role from **every member on this page**?"
	}
	emb := s.baseEmbed()
	emb.Title = "Confirmation"
	emb.Color = gateway.ColorYellow
	emb.Description = desc
	_, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{
		Embeds:     []gateway.Embed{emb},
		Components: []gateway.ActionRow{confirmRow(sess, interaction.ActionConfirmRemoveAll, interaction.ActionCancelRemoveAll)},
	})
	return err
}

func (s *Service) handleRemoveAllConfirm(ctx context.Context, ev gateway.ComponentEvent, ref interaction.Ref, sess *session.Session) error {
	if ref.Action == interaction.ActionCancelRemoveAll {
		emb := s.baseEmbed()
		emb.Title = "Action cancelled"
		emb.Color = gateway.ColorRed
		return s.msg.Update(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
	}

	switch sess.Kind {
	case session.KindEditor:
		if err := s.removeAllEditor(ctx, sess); err != nil {
			return err
		}
	case session.KindBlackRole:
		var before []string
		if _, err := s.store.Update(sess.GuildID, func(d *store.Document) error {
			before = d.BlackRoles
			d.BlackRoles = []string{}
			return nil
		}); err != nil {
			return err
		}
		s.audit.Emit(ctx, sess.GuildID, audit.Record{
			Title:          "Denylist cleared",
			Color:          gateway.ColorRed,
			ActorID:        sess.ActorID,
			RemovedRoleIDs: before,
		})
	case session.KindBLRConfig:
		list := "keep"
		if _, err := s.store.Update(sess.GuildID, func(d *store.Document) error {
			if sess.BLRMode == session.BLRModeAdd {
				list = "add"
				d.BLRAddRoles = []string{}
			} else {
				d.BLRKeepRoles = []string{}
			}
			return nil
		}); err != nil {
			return err
		}
		s.audit.Emit(ctx, sess.GuildID, audit.Record{
			Title:   "BLR " + list + " list cleared",
			Color:   gateway.ColorRed,
			ActorID: sess.ActorID,
		})
	case session.KindRoleMembers:
		if err := s.removeAllRoleMembers(ctx, sess); err != nil {
			return err
		}
	}
	s.refreshSession(ctx, sess)

	emb := s.baseEmbed()
	emb.Title = "Done"
	emb.Color = gateway.ColorGreen
	return s.msg.Update(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
}

func (s *Service) removeAllEditor(ctx context.Context, sess *session.Session) error {
	doc, err := s.store.Load(sess.GuildID)
	if err != nil {
		return err
	}
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return err
	}
	actor, err := s.dir.Member(ctx, sess.GuildID, sess.ActorID)
	if err != nil {
		return err
	}
	target, err := s.dir.Member(ctx, sess.GuildID, sess.TargetID)
	if err != nil {
		return err
	}
	manageable := s.manageableRoleIDs(v, doc, actor)
	var toRemove []string
	for _, id := range target.RoleIDs {
		if slices.Contains(manageable, id) {
			toRemove = append(toRemove, id)
		}
	}
	res := s.engine.ApplyRoleDiff(ctx, sess.GuildID, sess.TargetID, nil, toRemove, "editor: remove all")
	s.auditRoleChange(ctx, sess.GuildID, sess.ActorID, sess.TargetID, nil, res.Removed, "Remove all (confirmed)")
	return nil
}

func (s *Service) removeAllRoleMembers(ctx context.Context, sess *session.Session) error {
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return err
	}
	actor, err := s.dir.Member(ctx, sess.GuildID, sess.ActorID)
	if err != nil {
		return err
	}
	var removed []string
	for _, uid := range sess.CurrentPage() {
		target, err := s.dir.Member(ctx, sess.GuildID, uid)
		if err != nil {
			continue
		}
		if !hierarchy.CanEditTarget(v.idx, actor, target) {
			continue
		}
		res := s.engine.ApplyRoleDiff(ctx, sess.GuildID, uid, nil, []string{sess.RoleID}, "role members: derank page")
		if len(res.Removed) > 0 {
			removed = append(removed, uid)
		}
	}
	s.auditRoleMemberBulk(ctx, sess.GuildID, sess.ActorID, sess.RoleID, nil, removed)
	return nil
}

// ---- selects ----

func (s *Service) handleSelect(ctx context.Context, ev gateway.ComponentEvent, ref interaction.Ref, sess *session.Session) error {
	pool := sess.PageAt(ref.Page)
	return s.applySelection(ctx, ev, sess, pool)
}

// handleSearchSelect toggles over the last search-result pool instead of
// the current page.
func (s *Service) handleSearchSelect(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session) error {
	return s.applySelection(ctx, ev, sess, sess.SearchResults)
}

// applySelection reconciles the checked set against the pool: checked but
// absent means add, unchecked but present means remove.
func (s *Service) applySelection(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session, pool []string) error {
	selected := make(map[string]bool, len(ev.Values))
	for _, v := range ev.Values {
		selected[v] = true
	}

	switch sess.Kind {
	case session.KindEditor:
		return s.selectEditorRoles(ctx, ev, sess, pool, selected)

	case session.KindBlackRole:
		added, removed, err := s.toggleDocList(sess.GuildID, pool, selected, func(d *store.Document) *[]string { return &d.BlackRoles })
		if err != nil {
			return err
		}
		s.audit.Emit(ctx, sess.GuildID, audit.Record{
			Title:          "Denylist updated",
			Color:          gateway.ColorPurple,
			ActorID:        sess.ActorID,
			AddedRoleIDs:   added,
			RemovedRoleIDs: removed,
		})

	case session.KindBLRConfig:
		list := func(d *store.Document) *[]string { return &d.BLRKeepRoles }
		label := "keep"
		if sess.BLRMode == session.BLRModeAdd {
			list = func(d *store.Document) *[]string { return &d.BLRAddRoles }
			label = "add"
		}
		added, removed, err := s.toggleDocList(sess.GuildID, pool, selected, list)
		if err != nil {
			return err
		}
		s.audit.Emit(ctx, sess.GuildID, audit.Record{
			Title:          "BLR config updated (" + label + ")",
			Color:          gateway.ColorDark,
			ActorID:        sess.ActorID,
			AddedRoleIDs:   added,
			RemovedRoleIDs: removed,
		})

	case session.KindRoleMembers:
		if sess.Mode != session.ModeRemove {
			return s.msg.Ack(ctx, ev.Interaction)
		}
		return s.selectRemoveMembers(ctx, ev, sess, pool, selected)
	}

	s.sessions.Touch(sess.ID)
	s.refreshSession(ctx, sess)
	return s.msg.Ack(ctx, ev.Interaction)
}

// selectEditorRoles applies the page diff to the target member's roles.
func (s *Service) selectEditorRoles(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session, pool []string, selected map[string]bool) error {
	target, err := s.dir.Member(ctx, sess.GuildID, sess.TargetID)
	if err != nil {
		return err
	}
	var toAdd, toRemove []string
	for _, id := range pool {
		has := target.HasRole(id)
		want := selected[id]
		if want && !has {
			toAdd = append(toAdd, id)
		}
		if !want && has {
			toRemove = append(toRemove, id)
		}
	}
	res := s.engine.ApplyRoleDiff(ctx, sess.GuildID, sess.TargetID, toAdd, toRemove, "role editor")
	s.auditRoleChange(ctx, sess.GuildID, sess.ActorID, sess.TargetID, res.Added, res.Removed, "Editor selection")
	s.sessions.Touch(sess.ID)
	s.refreshSession(ctx, sess)
	return s.msg.Ack(ctx, ev.Interaction)
}

// selectRemoveMembers strips the session's role from the selected members.
func (s *Service) selectRemoveMembers(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session, pool []string, selected map[string]bool) error {
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return err
	}
	actor, err := s.dir.Member(ctx, sess.GuildID, sess.ActorID)
	if err != nil {
		return err
	}
	var removed []string
	for _, uid := range pool {
		if !selected[uid] {
			continue
		}
		target, err := s.dir.Member(ctx, sess.GuildID, uid)
		if err != nil {
			continue
		}
		if !hierarchy.CanEditTarget(v.idx, actor, target) {
			continue
		}
		res := s.engine.ApplyRoleDiff(ctx, sess.GuildID, uid, nil, []string{sess.RoleID}, "role members: remove")
		if len(res.Removed) > 0 {
			removed = append(removed, uid)
		}
	}
	s.auditRoleMemberBulk(ctx, sess.GuildID, sess.ActorID, sess.RoleID, nil, removed)
	s.sessions.Touch(sess.ID)
	s.refreshSession(ctx, sess)
	return s.msg.Ack(ctx, ev.Interaction)
}

// handleUserSelect adds the session's role to picked members. Rostered BLR
// users and members the actor cannot edit are skipped silently.
func (s *Service) handleUserSelect(ctx context.Context, ev gateway.ComponentEvent, sess *session.Session) error {
	if sess.Kind != session.KindRoleMembers {
		return nil
	}
	doc, err := s.store.Load(sess.GuildID)
	if err != nil {
		return err
	}
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return err
	}
	actor, err := s.dir.Member(ctx, sess.GuildID, sess.ActorID)
	if err != nil {
		return err
	}
	role, err := s.dir.Role(ctx, sess.GuildID, sess.RoleID)
	if err != nil {
		return err
	}
	manageable := hierarchy.RoleManageableBy(v.idx, actor, v.bot, role, v.guild.BaseRoleID)

	var added []string
	for _, uid := range ev.Values {
		if doc.IsBLR(uid) {
			continue
		}
		target, err := s.dir.Member(ctx, sess.GuildID, uid)
		if err != nil {
			continue
		}
		if !hierarchy.CanEditTarget(v.idx, actor, target) {
			continue
		}
		if target.HasRole(role.ID) || !manageable {
			continue
		}
		res := s.engine.ApplyRoleDiff(ctx, sess.GuildID, uid, []string{role.ID}, nil, "role members: add")
		if len(res.Added) > 0 {
			added = append(added, uid)
		}
	}
	s.auditRoleMemberBulk(ctx, sess.GuildID, sess.ActorID, sess.RoleID, added, nil)
	s.sessions.Touch(sess.ID)
	s.refreshSession(ctx, sess)
	return s.msg.Ack(ctx, ev.Interaction)
}

// toggleDocList reconciles a document list against the checked set within
// one atomic read-modify-write.
func (s *Service) toggleDocList(guildID string, pool []string, selected map[string]bool, pick func(*store.Document) *[]string) (added, removed []string, err error) {
	_, err = s.store.Update(guildID, func(d *store.Document) error {
		list := pick(d)
		for _, id := range pool {
			has := slices.Contains(*list, id)
			want := selected[id]
			if want && !has {
				*list = append(*list, id)
				added = append(added, id)
			}
			if !want && has {
				i := slices.Index(*list, id)
				*list = slices.Delete(*list, i, i+1)
				removed = append(removed, id)
			}
		}
		return nil
	})
	return added, removed, err
}

// ---- search modal ----

func (s *Service) handleModal(ctx context.Context, ev gateway.ModalSubmitEvent) error {
	if !s.guard.First(ctx, ev.ID) {
		return nil
	}
	ref, err := interaction.Parse(ev.CustomID)
	if err != nil || ref.Kind != interaction.KindModal || ref.Action != interaction.ActionSearch {
		return nil
	}
	sess, err := s.resolveSession(ctx, ev.Interaction, ref)
	if sess == nil {
		return err
	}

	query := format.Fold(strings.TrimSpace(ev.Fields["q"]))
	if len(query) < 2 {
		return s.refuse(ctx, ev.Interaction, "Enter at least 2 characters.")
	}

	doc, err := s.store.Load(sess.GuildID)
	if err != nil {
		return err
	}
	v, err := s.viewGuild(ctx, sess.GuildID)
	if err != nil {
		return err
	}

	var pool []string
	if sess.Kind == session.KindEditor {
		actor, err := s.dir.Member(ctx, sess.GuildID, sess.ActorID)
		if err != nil {
			return err
		}
		pool = s.manageableRoleIDs(v, doc, actor)
	} else {
		pool = v.allRoleIDs()
	}

	var results []string
	for _, id := range pool {
		r := v.idx[id]
		if id == query || strings.Contains(format.Fold(r.Name), query) {
			results = append(results, id)
			if len(results) == 25 {
				break
			}
		}
	}
	if len(results) == 0 {
		s.sessions.Touch(sess.ID)
		return s.refuse(ctx, ev.Interaction, "No roles found for `"+query+"`.")
	}
	sess.SearchResults = results

	var isOn func(string) bool
	switch sess.Kind {
	case session.KindEditor:
		target, err := s.dir.Member(ctx, sess.GuildID, sess.TargetID)
		if err != nil {
			return err
		}
		isOn = target.HasRole
	case session.KindBlackRole:
		isOn = doc.IsBlackRole
	default:
		list := doc.BLRKeepRoles
		if sess.BLRMode == session.BLRModeAdd {
			list = doc.BLRAddRoles
		}
		isOn = func(id string) bool { return slices.Contains(list, id) }
	}
	opts := roleOptions(results, v.idx, isOn)

	var matches strings.Builder
	for i, id := range results {
		if i > 0 {
			matches.WriteString("\n")
		}
		matches.WriteString("• " + v.idx[id].Name + " — " + format.MentionRole(id) + " `" + id + "`")
	}

	emb := s.baseEmbed()
	emb.Title = "Search results"
	emb.Color = gateway.ColorBlurple
	emb.Description = "Check what should be **active** in the current context."
	emb.Fields = []gateway.EmbedField{
		{Name: "Matches", Value: format.Truncate(matches.String(), format.FieldLimit)},
	}

	row := gateway.ActionRow{Select: &gateway.SelectMenu{
		CustomID:    componentID(interaction.KindSearchSelect, sess),
		Placeholder: "Select (checked = active)",
		MinValues:   0,
		MaxValues:   min(25, len(opts)),
		Options:     opts,
	}}

	s.sessions.Touch(sess.ID)
	_, err = s.msg.Reply(ctx, ev.Interaction, gateway.Message{
		Embeds:     []gateway.Embed{emb},
		Components: []gateway.ActionRow{row},
	})
	return err
}

func confirmRow(sess *session.Session, confirmAction, cancelAction string) gateway.ActionRow {
	return gateway.ActionRow{Buttons: []gateway.Button{
		{CustomID: buttonID(confirmAction, sess), Label: "Confirm", Style: gateway.ButtonSuccess},
		{CustomID: buttonID(cancelAction, sess), Label: "Cancel", Style: gateway.ButtonDanger},
	}}
}
