package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yieldScope/internal/model"
	"yieldScope/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	chain_id       BIGINT           NOT NULL,
	pool_address   TEXT             NOT NULL,
	dex_type       TEXT             NOT NULL,
	token0         TEXT             NOT NULL,
	token0_symbol  TEXT             NOT NULL,
	token0_decimals SMALLINT        NOT NULL,
	token1         TEXT             NOT NULL,
	token1_symbol  TEXT             NOT NULL,
	token1_decimals SMALLINT        NOT NULL,
	fee            DOUBLE PRECISION NOT NULL,
	tick_spacing   INTEGER          NOT NULL,
	current_tick   INTEGER          NOT NULL,
	price0         DOUBLE PRECISION NOT NULL,
	price1         DOUBLE PRECISION NOT NULL,
	snapshot_id    UUID             NOT NULL,
	snapshot_at    TIMESTAMPTZ      NOT NULL,
	created_at     TIMESTAMPTZ      NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_address)
)`

const upsertPool = `
	INSERT INTO pools (
		chain_id, pool_address, dex_type,
		token0, token0_symbol, token0_decimals,
		token1, token1_symbol, token1_decimals,
		fee, tick_spacing, current_tick, price0, price1,
		snapshot_id, snapshot_at, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,now(),now())
	ON CONFLICT (chain_id, pool_address)
	DO UPDATE SET
		dex_type = EXCLUDED.dex_type,
		token0 = EXCLUDED.token0,
		token0_symbol = EXCLUDED.token0_symbol,
		token0_decimals = EXCLUDED.token0_decimals,
		token1 = EXCLUDED.token1,
		token1_symbol = EXCLUDED.token1_symbol,
		token1_decimals = EXCLUDED.token1_decimals,
		fee = EXCLUDED.fee,
		tick_spacing = EXCLUDED.tick_spacing,
		current_tick = EXCLUDED.current_tick,
		price0 = EXCLUDED.price0,
		price1 = EXCLUDED.price1,
		snapshot_id = EXCLUDED.snapshot_id,
		snapshot_at = EXCLUDED.snapshot_at,
		updated_at = now()
`

// Store publishes pool snapshots to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the pools table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create pools table: %w", err)
	}
	return nil
}

// PutSnapshot upserts every pool of the snapshot in one batch.
func (s *Store) PutSnapshot(ctx context.Context, snap storage.Snapshot) error {
	if len(snap.Pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range snap.Pools {
		batch.Queue(upsertPool, upsertArgs(snap, p)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, p := range snap.Pools {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert pool %s: %w", p.Address, err)
		}
	}
	return nil
}

func upsertArgs(snap storage.Snapshot, p model.Pool) []interface{} {
	return []interface{}{
		int64(snap.ChainID),
		p.Address.String(),
		p.DexType.String(),
		p.Token0.Address,
		p.Token0.Symbol,
		int16(p.Token0.Decimals),
		p.Token1.Address,
		p.Token1.Symbol,
		int16(p.Token1.Decimals),
		p.Fee,
		p.TickSpacing,
		p.CurrentTick,
		p.Price0,
		p.Price1,
		snap.ID,
		snap.TakenAt,
	}
}
