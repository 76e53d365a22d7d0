package repository

import (
	"context"
	"testing"
	"time"

	"unfake/internal/models"
	"unfake/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestPostRepository_ApplyVoteRecordsStoreSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("repository-test")
	t.Cleanup(func() { observability.Tracer = prev })

	stores := setupSQLiteStores(t)
	now := time.Now().UTC()
	author := seedUser(t, stores.Users, "author", models.StatusActive, now)
	post := seedPost(t, stores.Posts, author, "Claim", "A claim", models.PostApproved, now)

	_, err := stores.Posts.ApplyVote(context.Background(), post.ID, author.ID, true)
	require.NoError(t, err)

	var found sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "sqlite.upsert" {
			found = s
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, trace.SpanKindClient, found.SpanKind())
	assert.Contains(t, found.Attributes(), attribute.String("db.table", "post_votes"))
	assert.Contains(t, found.Attributes(), attribute.String("db.system", "sqlite"))
}
