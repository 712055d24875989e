package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Thread() ThreadRepository
	Message() MessageRepository
	Memory() MemoryRepository
	Usage() UsageRepository
	Business() BusinessRepository

	Close() error
}
