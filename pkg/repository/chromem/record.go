package chromem

import (
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
)

const timeLayout = time.RFC3339Nano

func nowUTC() time.Time {
	return time.Now().UTC()
}

func (s *storedRecord) toModel(embedding []float32) *model.MemoryRecord {
	createdAt, _ := time.Parse(timeLayout, s.CreatedAt)
	return &model.MemoryRecord{
		ID:        s.ID,
		UserID:    s.UserID,
		Embedding: embedding,
		Input:     s.Input,
		Response:  s.Response,
		Tags:      s.Tags,
		KPI:       s.KPI,
		CreatedAt: createdAt,
	}
}
