package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/gateway/gatewaytest"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

type stubQueue struct {
	records []Record
	err     error
}

func (q *stubQueue) EnqueueAudit(_ context.Context, _ string, rec Record) error {
	if q.err != nil {
		return q.err
	}
	q.records = append(q.records, rec)
	return nil
}

func setup(t *testing.T, logChannel string) (*store.Store, *gatewaytest.Fake) {
	t.Helper()
	st := store.New(t.TempDir())
	doc := store.DefaultDocument()
	doc.LogChannelID = logChannel
	require.NoError(t, st.Save("g", doc))
	fake := gatewaytest.New()
	fake.SeedGuild("g", "Guild")
	return st, fake
}

func TestEmitDirect(t *testing.T) {
	st, fake := setup(t, "log-chan")
	e := NewEmitter(st, fake, fake, nil, slog.New(slog.DiscardHandler), nil)

	e.Emit(context.Background(), "g", Record{Title: "Roles changed", ActorID: "a", AddedRoleIDs: []string{"r1"}})

	require.Len(t, fake.Sends, 1)
	assert.Equal(t, "log-chan", fake.Sends[0].ChannelID)
	emb := fake.Sends[0].Message.Embeds[0]
	assert.Equal(t, "Roles changed", emb.Title)
	assert.Equal(t, gateway.ColorBlurple, emb.Color)
}

func TestEmitDisabledWhenChannelEmpty(t *testing.T) {
	st, fake := setup(t, "")
	e := NewEmitter(st, fake, fake, nil, slog.New(slog.DiscardHandler), nil)
	e.Emit(context.Background(), "g", Record{Title: "x"})
	assert.Empty(t, fake.Sends)
}

func TestEmitPrefersQueue(t *testing.T) {
	st, fake := setup(t, "log-chan")
	q := &stubQueue{}
	e := NewEmitter(st, fake, fake, q, slog.New(slog.DiscardHandler), nil)

	e.Emit(context.Background(), "g", Record{Title: "x"})

	assert.Empty(t, fake.Sends)
	require.Len(t, q.records, 1)
	assert.NotEmpty(t, q.records[0].ID)
	assert.Equal(t, "Guild", q.records[0].GuildName)
}

func TestEmitFallsBackWhenQueueFails(t *testing.T) {
	st, fake := setup(t, "log-chan")
	q := &stubQueue{err: errors.New("redis down")}
	e := NewEmitter(st, fake, fake, q, slog.New(slog.DiscardHandler), nil)

	e.Emit(context.Background(), "g", Record{Title: "x"})

	assert.Len(t, fake.Sends, 1)
}

func TestBuildEmbedFields(t *testing.T) {
	emb := BuildEmbed(Record{
		Title:          "BLR applied",
		Color:          gateway.ColorRed,
		GuildID:        "g",
		GuildName:      "Guild",
		ActorID:        "a",
		TargetID:       "t",
		AddedRoleIDs:   []string{"r1"},
		RemovedRoleIDs: []string{"r2", "r3"},
		Info:           "rejoin",
	})
	names := make([]string, 0, len(emb.Fields))
	for _, f := range emb.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Actor", "Target", "Added roles", "Removed roles", "Info", "Guild"}, names)
}
