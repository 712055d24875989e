package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/repository/chromem"
	"github.com/bizmate-ai/bizmate/pkg/repository/firestore"
	"github.com/bizmate-ai/bizmate/pkg/repository/memory"
)

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("thread create assigns ID and round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))
		thread := model.NewThread(userID, "biz-001", types.IntentCashflow, "How is my runway looking this quarter?")

		created, err := repo.Thread().Create(ctx, thread)
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		got, err := repo.Thread().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.UserID).Equal(userID)
		gt.Value(t, got.Intent).Equal(types.IntentCashflow)
		gt.String(t, got.Title).NotEqual("")
	})

	t.Run("thread get missing returns error", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Thread().Get(context.Background(), types.NewThreadID())
		gt.Error(t, err)
	})

	t.Run("thread update persists touch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		thread := model.NewThread("user-001", "", types.IntentGeneral, "first")
		created, err := repo.Thread().Create(ctx, thread)
		gt.NoError(t, err).Required()

		at := time.Now().UTC().Truncate(time.Millisecond)
		created.Touch("latest assistant reply", at)
		gt.NoError(t, repo.Thread().Update(ctx, created)).Required()

		got, err := repo.Thread().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.LastExcerpt).Equal("latest assistant reply")
		gt.Bool(t, got.LastMessageAt.IsZero()).False()
	})

	t.Run("message pair insert and recent listing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		thread, err := repo.Thread().Create(ctx, model.NewThread("user-001", "", types.IntentGeneral, "first"))
		gt.NoError(t, err).Required()

		at := time.Now().UTC().Truncate(time.Millisecond)
		user := model.NewMessage(thread.ID, types.RoleUser, "can we talk numbers?", at)
		assistant := model.NewMessage(thread.ID, types.RoleAssistant, "always, here they are", at)
		gt.NoError(t, repo.Message().Insert(ctx, user, assistant)).Required()

		later := model.NewMessage(thread.ID, types.RoleUser, "and next month?", at.Add(time.Minute))
		gt.NoError(t, repo.Message().Insert(ctx, later)).Required()

		messages, err := repo.Message().ListRecent(ctx, thread.ID, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(2)
		gt.Value(t, messages[0].Content).Equal("and next month?")

		all, err := repo.Message().ListRecent(ctx, thread.ID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
		gt.Value(t, all[1].CreatedAt).Equal(all[2].CreatedAt)
	})

	t.Run("usage counter is zero until first put", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))
		month := types.MonthKey("2026-08")

		counter, err := repo.Usage().Get(ctx, userID, month)
		gt.NoError(t, err).Required()
		gt.Value(t, counter.Queries).Equal(0)
		gt.Value(t, counter.WebLookups).Equal(0)

		counter.Queries = 5
		counter.WebLookups = 2
		gt.NoError(t, repo.Usage().Put(ctx, counter)).Required()

		got, err := repo.Usage().Get(ctx, userID, month)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Queries).Equal(5)
		gt.Value(t, got.WebLookups).Equal(2)

		// Months are independent buckets
		other, err := repo.Usage().Get(ctx, userID, types.MonthKey("2026-09"))
		gt.NoError(t, err).Required()
		gt.Value(t, other.Queries).Equal(0)
	})

	t.Run("memory record search honors score floor and tags", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))

		near := make([]float32, model.EmbeddingDimension)
		near[0] = 1
		far := make([]float32, model.EmbeddingDimension)
		far[1] = 1

		_, err := repo.Memory().Create(ctx, &model.MemoryRecord{
			UserID:    userID,
			Embedding: near,
			Input:     "should I raise my hourly rate",
			Response:  "yes, the market supports it",
			Tags:      []string{"pricing"},
		})
		gt.NoError(t, err).Required()

		_, err = repo.Memory().Create(ctx, &model.MemoryRecord{
			UserID:    userID,
			Embedding: far,
			Input:     "when should I buy a second truck",
			Response:  "wait until utilization passes 80 percent",
			Tags:      []string{"affordability"},
		})
		gt.NoError(t, err).Required()

		query := make([]float32, model.EmbeddingDimension)
		query[0] = 1

		hits, err := repo.Memory().Search(ctx, userID, query, interfaces.MemorySearchOption{
			MinScore: 0.75,
			Limit:    5,
		})
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(1)
		gt.Value(t, hits[0].Record.Input).Equal("should I raise my hourly rate")
		gt.Bool(t, hits[0].Score >= 0.75).True()

		// A tag filter that excludes the near record leaves nothing
		hits, err = repo.Memory().Search(ctx, userID, query, interfaces.MemorySearchOption{
			MinScore: 0.75,
			Limit:    5,
			Tags:     []string{"affordability"},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(0)
	})

	t.Run("memory records are scoped per user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		vec := make([]float32, model.EmbeddingDimension)
		vec[0] = 1

		owner := types.UserID(fmt.Sprintf("owner-%d", time.Now().UnixNano()))
		other := types.UserID(fmt.Sprintf("other-%d", time.Now().UnixNano()))

		_, err := repo.Memory().Create(ctx, &model.MemoryRecord{
			UserID:    owner,
			Embedding: vec,
			Input:     "private planning discussion",
			Response:  "kept between us",
		})
		gt.NoError(t, err).Required()

		hits, err := repo.Memory().Search(ctx, other, vec, interfaces.MemorySearchOption{Limit: 5})
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(0)

		records, err := repo.Memory().ListRecent(ctx, owner, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
	})

	t.Run("business lookup by owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Business().GetProfileByUser(ctx, "nobody")
		gt.Error(t, err)
	})
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestChromemRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := chromem.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, databaseID)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			_ = repo.Close()
		})
		return repo
	})
}
