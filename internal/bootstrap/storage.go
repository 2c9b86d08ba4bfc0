package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/seed-api/config"
	"github.com/GoSim-25-26J-441/seed-api/internal/nodes"
	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
	"github.com/GoSim-25-26J-441/seed-api/internal/storage/memory"
	"github.com/GoSim-25-26J-441/seed-api/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/seed-api/internal/storage/redisstore"
	"github.com/GoSim-25-26J-441/seed-api/internal/tags"
)

// Storage holds one Store per resource, all backed by the same driver.
type Storage struct {
	Driver string
	Nodes  rest.Store[*nodes.Node]
	Tags   rest.Store[*tags.Tag]

	db    *sql.DB
	redis *redis.Client
}

// OpenStorage connects to the backend selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.PostgresDSN()})
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(db), nil
	case config.DriverRedis:
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return NewRedisStorage(client), nil
	case config.DriverMemory, "":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func NewMemoryStorage() *Storage {
	return &Storage{
		Driver: config.DriverMemory,
		Nodes:  memory.New(nodes.New),
		Tags:   memory.New(tags.New),
	}
}

func NewPostgresStorage(db *sql.DB) *Storage {
	return &Storage{
		Driver: config.DriverPostgres,
		Nodes:  postgres.NewStore(db, nodes.Table),
		Tags:   postgres.NewStore(db, tags.Table),
		db:     db,
	}
}

func NewRedisStorage(client *redis.Client) *Storage {
	return &Storage{
		Driver: config.DriverRedis,
		Nodes:  redisstore.NewStore(client, nodes.Name, nodes.New),
		Tags:   redisstore.NewStore(client, tags.Name, tags.New),
		redis:  client,
	}
}

// Ping checks the shared backend connection.
func (s *Storage) Ping(ctx context.Context) error {
	switch {
	case s.db != nil:
		return s.db.PingContext(ctx)
	case s.redis != nil:
		return s.redis.Ping(ctx).Err()
	default:
		return nil
	}
}

// Migrate creates the resource tables. It is a no-op for non-SQL drivers.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return postgres.Migrate(ctx, s.db, nodes.Table.DDL, tags.Table.DDL)
}

func (s *Storage) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}
