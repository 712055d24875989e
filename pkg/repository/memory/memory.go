package memory

import (
	"errors"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend, used for development and
// tests.
type Memory struct {
	thread   *threadRepository
	message  *messageRepository
	memBank  *memoryRecordRepository
	usage    *usageRepository
	business *businessRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		thread:   newThreadRepository(),
		message:  newMessageRepository(),
		memBank:  newMemoryRecordRepository(),
		usage:    newUsageRepository(),
		business: newBusinessRepository(),
	}
}

func (m *Memory) Thread() interfaces.ThreadRepository {
	return m.thread
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memBank
}

func (m *Memory) Usage() interfaces.UsageRepository {
	return m.usage
}

func (m *Memory) Business() interfaces.BusinessRepository {
	return m.business
}

func (m *Memory) Close() error {
	return nil
}

// Seed helpers populate business data for development and test setups.
// Ingestion of business data is owned by other parts of the platform, so
// these are not part of interfaces.BusinessRepository.

func (m *Memory) SeedProfile(profile *model.BusinessProfile) {
	m.business.PutProfile(profile)
}

func (m *Memory) SeedKPISnapshot(snapshot *model.KPISnapshot) {
	m.business.PutKPISnapshot(snapshot)
}

func (m *Memory) SeedForecastPoint(point *model.ForecastPoint) {
	m.business.PutForecastPoint(point)
}

func (m *Memory) SeedSuggestedMove(move *model.SuggestedMove) {
	m.business.PutSuggestedMove(move)
}
