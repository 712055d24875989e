package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/utils/async"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

// persistTurn stores the exchange: the thread (created lazily on the
// first turn), the user/assistant message pair sharing one timestamp, and
// the long-term memory record. Returns the thread ID immediately; the
// writes themselves may run after the response when deferred writes are
// enabled. Scheduling turns always persist before returning so a booking
// confirmation is never shown for an unsaved exchange.
func (uc *UseCases) persistTurn(ctx context.Context, input *ChatInput, intent types.Intent, bundle *model.ContextBundle, reply *interfaces.Reply) types.ThreadID {
	now := time.Now()

	threadID := input.ThreadID
	var newThread *model.Thread
	if threadID == "" {
		newThread = model.NewThread(input.UserID, input.BusinessID, intent, input.Message)
		newThread.CreatedAt = now
		threadID = newThread.ID
	}

	var digest *model.KPIDigest
	if len(bundle.KPIs) > 0 {
		digest = bundle.KPIs[0].Digest()
	}

	write := func(ctx context.Context) error {
		return uc.writeTurn(ctx, input, intent, threadID, newThread, reply, digest, now)
	}

	if uc.deferWrites && intent != types.IntentScheduling {
		async.Dispatch(ctx, write)
		return threadID
	}

	if err := write(ctx); err != nil {
		logging.From(ctx).Error("failed to persist turn",
			"error", err, "user_id", input.UserID, "thread_id", threadID)
	}
	return threadID
}

func (uc *UseCases) writeTurn(ctx context.Context, input *ChatInput, intent types.Intent, threadID types.ThreadID, newThread *model.Thread, reply *interfaces.Reply, digest *model.KPIDigest, now time.Time) error {
	thread := newThread
	if thread == nil {
		existing, err := uc.repo.Thread().Get(ctx, threadID)
		if err != nil {
			// The caller referenced a thread we don't have; recreate it
			// under the same ID rather than dropping the exchange.
			thread = model.NewThread(input.UserID, input.BusinessID, intent, input.Message)
			thread.ID = threadID
			thread.CreatedAt = now
			newThread = thread
		} else {
			thread = existing
		}
	}
	if newThread != nil {
		if _, err := uc.repo.Thread().Create(ctx, thread); err != nil {
			return goerr.Wrap(err, "failed to create thread", goerr.V("thread_id", threadID))
		}
	}

	userMsg := model.NewMessage(threadID, types.RoleUser, input.Message, now)
	assistantMsg := model.NewMessage(threadID, types.RoleAssistant, reply.Text, now)
	uc.attachEmbeddings(ctx, userMsg, assistantMsg)

	if err := uc.repo.Message().Insert(ctx, userMsg, assistantMsg); err != nil {
		return goerr.Wrap(err, "failed to insert message pair", goerr.V("thread_id", threadID))
	}

	thread.Touch(reply.Text, now)
	if err := uc.repo.Thread().Update(ctx, thread); err != nil {
		logging.From(ctx).Warn("failed to touch thread", "error", err, "thread_id", threadID)
	}

	if !reply.Stub {
		tags := []string{string(intent)}
		if _, err := uc.memories.Store(ctx, input.UserID, input.Message, reply.Text, tags, digest); err != nil {
			logging.From(ctx).Warn("failed to store memory", "error", err, "user_id", input.UserID)
		}
	}

	return nil
}

// attachEmbeddings adds message embeddings on a best-effort basis. A
// failure leaves the embedding nil; it never blocks persistence.
func (uc *UseCases) attachEmbeddings(ctx context.Context, messages ...*model.Message) {
	if uc.embedder == nil {
		return
	}
	for _, msg := range messages {
		vec, err := uc.embedder.Embed(ctx, msg.Content)
		if err != nil {
			logging.From(ctx).Debug("message embedding failed", "error", err, "message_id", msg.ID)
			continue
		}
		msg.Embedding = vec
	}
}
