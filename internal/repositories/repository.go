package repositories

import "context"

// Repository aggregates the per-entity repositories behind one handle.
type Repository interface {
	Event() EventRepository
	Registration() RegistrationRepository
	User() UserRepository
	Category() CategoryRepository

	// WithTransaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls the transaction back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
