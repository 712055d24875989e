package memorybank_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/repository/memory"
	"github.com/bizmate-ai/bizmate/pkg/service/memorybank"
)

// fixedEmbedder returns a registered vector per text, or an orthogonal
// basis vector for unknown texts.
type fixedEmbedder struct {
	vectors map[string][]float32
	next    int
	err     error
}

func (f *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors == nil {
		f.vectors = map[string][]float32{}
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	vec := make([]float32, model.EmbeddingDimension)
	vec[f.next%model.EmbeddingDimension] = 1
	f.next++
	f.vectors[text] = vec
	return vec, nil
}

func (f *fixedEmbedder) register(text string, vec []float32) {
	if f.vectors == nil {
		f.vectors = map[string][]float32{}
	}
	f.vectors[text] = vec
}

const userID = types.UserID("user-001")

func TestStore(t *testing.T) {
	t.Run("qualifying exchange is stored with tags and KPI digest", func(t *testing.T) {
		repo := memory.New()
		svc := memorybank.New(repo.Memory(), &fixedEmbedder{}, memorybank.DefaultConfig())
		ctx := context.Background()

		digest := &model.KPIDigest{Period: "2026-08", Revenue: 42000, Profit: 11000}
		record, err := svc.Store(ctx, userID,
			"should I raise my hourly rate to $95?",
			"yes, comparable shops in your area already charge more",
			[]string{"pricing"}, digest)
		gt.NoError(t, err).Required()
		gt.Value(t, record).NotNil()
		gt.Bool(t, record.HasTag("pricing")).True()
		gt.Value(t, record.KPI.Period).Equal("2026-08")
	})

	t.Run("trivial exchange is skipped", func(t *testing.T) {
		repo := memory.New()
		svc := memorybank.New(repo.Memory(), &fixedEmbedder{}, memorybank.DefaultConfig())

		record, err := svc.Store(context.Background(), userID, "hi", "hello!", nil, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, record).Nil()

		records, err := repo.Memory().ListRecent(context.Background(), userID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})

	t.Run("near-duplicate is suppressed", func(t *testing.T) {
		repo := memory.New()
		emb := &fixedEmbedder{}
		svc := memorybank.New(repo.Memory(), emb, memorybank.DefaultConfig())
		ctx := context.Background()

		input := "what should my winter pricing look like?"
		response := "bump emergency call-outs by 20 percent"

		first, err := svc.Store(ctx, userID, input, response, nil, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, first).NotNil()

		// The same exchange embeds to the same vector and is suppressed
		second, err := svc.Store(ctx, userID, input, response, nil, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, second).Nil()

		records, err := repo.Memory().ListRecent(ctx, userID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
	})
}

func TestRecall(t *testing.T) {
	t.Run("similar records come back as synopses", func(t *testing.T) {
		repo := memory.New()
		emb := &fixedEmbedder{}
		svc := memorybank.New(repo.Memory(), emb, memorybank.DefaultConfig())
		ctx := context.Background()

		input := "can I afford to hire a second plumber?"
		response := "not until spring, cash is too tight"
		_, err := svc.Store(ctx, userID, input, response, nil, nil)
		gt.NoError(t, err).Required()

		// Make the query embed close to the stored exchange
		emb.register("thinking about hiring again", emb.vectors[input+"\n"+response])

		lines, err := svc.Recall(ctx, userID, "thinking about hiring again", nil)
		gt.NoError(t, err).Required()
		gt.Array(t, lines).Length(1)
		gt.Bool(t, strings.Contains(lines[0], "second plumber")).True()
		gt.Bool(t, strings.Contains(lines[0], "cash is too tight")).True()
	})

	t.Run("dissimilar records stay below the floor", func(t *testing.T) {
		repo := memory.New()
		svc := memorybank.New(repo.Memory(), &fixedEmbedder{}, memorybank.DefaultConfig())
		ctx := context.Background()

		_, err := svc.Store(ctx, userID,
			"how do I price a bathroom remodel?",
			"start from materials plus 60 hours of labor",
			nil, nil)
		gt.NoError(t, err).Required()

		lines, err := svc.Recall(ctx, userID, "completely unrelated topic", nil)
		gt.NoError(t, err).Required()
		gt.Array(t, lines).Length(0)
	})

	t.Run("keyword fallback when embedding fails", func(t *testing.T) {
		repo := memory.New()
		emb := &fixedEmbedder{}
		svc := memorybank.New(repo.Memory(), emb, memorybank.DefaultConfig())
		ctx := context.Background()

		_, err := svc.Store(ctx, userID,
			"should I buy the flatbed truck this quarter?",
			"wait for the year-end dealer discounts",
			nil, nil)
		gt.NoError(t, err).Required()

		// Vector path breaks; recall degrades to keyword overlap
		emb.err = errors.New("embedding service down")

		lines, err := svc.Recall(ctx, userID, "truck discounts", nil)
		gt.NoError(t, err).Required()
		gt.Array(t, lines).Length(1)
		gt.Bool(t, strings.Contains(lines[0], "flatbed truck")).True()
	})
}
