package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/garage-inventory/internal/domain"
)

const (
	garageKeyPrefix = "garage:"
	garageOrderKey  = "garages:order"
	garageSeqKey    = "garages:seq"
)

// redisGarageRepo stores each garage as one JSON record keyed by ID, with a
// sorted set holding display order.
type redisGarageRepo struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisGarageRepo constructs a GarageRepo backed by Redis.
func NewRedisGarageRepo(client redis.UniversalClient) GarageRepo {
	return &redisGarageRepo{client: client, now: func() time.Time { return time.Now().UTC() }}
}

func garageKey(id uuid.UUID) string { return garageKeyPrefix + id.String() }

// List reads the order set, then fetches all records in one MGET.
// IDs whose record has vanished are skipped.
func (r *redisGarageRepo) List(ctx context.Context) ([]domain.Garage, error) {
	ids, err := r.client.ZRange(ctx, garageOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("repo.RedisGarageRepo.List: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = garageKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("repo.RedisGarageRepo.List: %w", err)
	}

	garages := make([]domain.Garage, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var g domain.Garage
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("repo.RedisGarageRepo.List: decode %s: %w", keys[i], err)
		}
		garages = append(garages, g)
	}
	return garages, nil
}

// Create assigns a new ID and the next display order from a counter.
func (r *redisGarageRepo) Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error) {
	order, err := r.client.Incr(ctx, garageSeqKey).Result()
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.RedisGarageRepo.Create: next order: %w", err)
	}

	now := r.now()
	g := domain.Garage{
		ID:        uuid.New(),
		Name:      draft.Name,
		Capacity:  draft.Capacity,
		Remarks:   draft.Remarks,
		Slots:     domain.NewSlotArray(draft.Capacity),
		Order:     int(order),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.write(ctx, g); err != nil {
		return domain.Garage{}, fmt.Errorf("repo.RedisGarageRepo.Create: %w", err)
	}
	return g, nil
}

// Save overwrites an existing record, keeping its capacity and creation time.
func (r *redisGarageRepo) Save(ctx context.Context, g domain.Garage) (domain.Garage, error) {
	existing, err := r.get(ctx, g.ID)
	if err != nil {
		return domain.Garage{}, fmt.Errorf("repo.RedisGarageRepo.Save: %w", err)
	}
	if len(g.Slots) != existing.Capacity {
		return domain.Garage{}, fmt.Errorf("repo.RedisGarageRepo.Save: %w: %d slots for capacity %d",
			domain.ErrValidation, len(g.Slots), existing.Capacity)
	}

	out := existing
	out.Name = g.Name
	out.Remarks = g.Remarks
	out.Slots = g.Slots.Clone()
	out.Order = g.Order
	out.UpdatedAt = r.now()
	if err := r.write(ctx, out); err != nil {
		return domain.Garage{}, fmt.Errorf("repo.RedisGarageRepo.Save: %w", err)
	}
	return out, nil
}

// Delete removes the record and its order entry in one transaction.
func (r *redisGarageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, garageKey(id))
		pipe.ZRem(ctx, garageOrderKey, id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.RedisGarageRepo.Delete: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("repo.RedisGarageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *redisGarageRepo) get(ctx context.Context, id uuid.UUID) (domain.Garage, error) {
	raw, err := r.client.Get(ctx, garageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Garage{}, domain.ErrNotFound
		}
		return domain.Garage{}, err
	}
	var g domain.Garage
	if err := json.Unmarshal(raw, &g); err != nil {
		return domain.Garage{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

func (r *redisGarageRepo) write(ctx context.Context, g domain.Garage) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, garageKey(g.ID), raw, 0)
		pipe.ZAdd(ctx, garageOrderKey, redis.Z{Score: float64(g.Order), Member: g.ID.String()})
		return nil
	})
	return err
}
