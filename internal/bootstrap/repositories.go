package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/PhotocardBot_Go/internal/database/postgres"
)

// Repositories holds the Postgres-backed stores
type Repositories struct {
	Catalog  *postgres.CatalogRepository
	Channels *postgres.ChannelRepository
	Economy  *postgres.EconomyRepository
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool, clock clockwork.Clock) *Repositories {
	return &Repositories{
		Catalog:  postgres.NewCatalogRepository(dbPool),
		Channels: postgres.NewChannelRepository(dbPool),
		Economy:  postgres.NewEconomyRepository(dbPool, clock),
	}
}
