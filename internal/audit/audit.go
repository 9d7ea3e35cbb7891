// Package audit emits a structured record to the guild's configured log
// channel after every state-changing action. Emission is best-effort: a
// failed send never blocks or rolls back the action that produced it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rolekeeper/rolekeeper/internal/format"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

// Record is one audit event.
type Record struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Color          int       `json:"color"`
	GuildID        string    `json:"guild_id"`
	GuildName      string    `json:"guild_name"`
	ActorID        string    `json:"actor_id,omitempty"`
	TargetID       string    `json:"target_id,omitempty"`
	AddedUserIDs   []string  `json:"added_user_ids,omitempty"`
	RemovedUserIDs []string  `json:"removed_user_ids,omitempty"`
	AddedRoleIDs   []string  `json:"added_role_ids,omitempty"`
	RemovedRoleIDs []string  `json:"removed_role_ids,omitempty"`
	Info           string    `json:"info,omitempty"`
	At             time.Time `json:"at"`
}

// Enqueuer hands a record to the background delivery queue. Implemented by
// the jobs package; nil means deliver inline.
type Enqueuer interface {
	EnqueueAudit(ctx context.Context, channelID string, rec Record) error
}

// Emitter resolves the guild's log channel and dispatches records.
type Emitter struct {
	store *store.Store
	msg   gateway.Messenger
	dir   gateway.Directory
	queue Enqueuer
	log   *slog.Logger
	now   func() time.Time
}

// NewEmitter constructs an Emitter. queue may be nil; a nil clock selects
// time.Now.
func NewEmitter(st *store.Store, msg gateway.Messenger, dir gateway.Directory, queue Enqueuer, log *slog.Logger, now func() time.Time) *Emitter {
	if now == nil {
		now = time.Now
	}
	return &Emitter{store: st, msg: msg, dir: dir, queue: queue, log: log, now: now}
}

// Emit completes the record and dispatches it. An empty logChannelId
// disables logging; every failure is swallowed after a debug log.
func (e *Emitter) Emit(ctx context.Context, guildID string, rec Record) {
	doc, err := e.store.Load(guildID)
	if err != nil {
		e.log.Debug("audit: load document", slog.String("guild", guildID), slog.Any("error", err))
		return
	}
	if doc.LogChannelID == "" {
		return
	}
	rec.ID = uuid.NewString()
	rec.GuildID = guildID
	if rec.At.IsZero() {
		rec.At = e.now()
	}
	if rec.GuildName == "" {
		if g, err := e.dir.Guild(ctx, guildID); err == nil {
			rec.GuildName = g.Name
		}
	}
	if e.queue != nil {
		if err := e.queue.EnqueueAudit(ctx, doc.LogChannelID, rec); err == nil {
			return
		}
		// Queue unavailable; fall through to inline delivery.
	}
	if err := Deliver(ctx, e.msg, doc.LogChannelID, rec); err != nil {
		e.log.Debug("audit: deliver", slog.String("guild", guildID), slog.Any("error", err))
	}
}

// Deliver sends the rendered record to the channel.
func Deliver(ctx context.Context, msg gateway.Messenger, channelID string, rec Record) error {
	_, err := msg.Send(ctx, channelID, gateway.Message{Embeds: []gateway.Embed{BuildEmbed(rec)}})
	return err
}

// BuildEmbed renders the record in the log embed layout.
func BuildEmbed(rec Record) gateway.Embed {
	color := rec.Color
	if color == 0 {
		color = gateway.ColorBlurple
	}
	emb := gateway.Embed{
		Title:     rec.Title,
		Color:     color,
		Timestamp: rec.At,
	}
	addField := func(name, value string) {
		emb.Fields = append(emb.Fields, gateway.EmbedField{
			Name:  name,
			Value: format.Truncate(value, format.FieldLimit),
		})
	}
	if rec.ActorID != "" {
		addField("Actor", format.MentionUser(rec.ActorID)+" (`"+rec.ActorID+"`)")
	}
	if rec.TargetID != "" {
		addField("Target", format.MentionUser(rec.TargetID)+" (`"+rec.TargetID+"`)")
	}
	if len(rec.AddedUserIDs) > 0 {
		addField("Added users", format.UserList(rec.AddedUserIDs))
	}
	if len(rec.RemovedUserIDs) > 0 {
		addField("Removed users", format.UserList(rec.RemovedUserIDs))
	}
	if len(rec.AddedRoleIDs) > 0 {
		addField("Added roles", format.RoleList(rec.AddedRoleIDs))
	}
	if len(rec.RemovedRoleIDs) > 0 {
		addField("Removed roles", format.RoleList(rec.RemovedRoleIDs))
	}
	if rec.Info != "" {
		addField("Info", rec.Info)
	}
	guild := rec.GuildName
	if guild == "" {
		guild = rec.GuildID
	}
	addField("Guild", guild+" (`"+rec.GuildID+"`)")
	return emb
}
