// Package inventorystore implements atomic inventory reservations on Redis.
// Stock counters live in stock:{productID} keys; a reservation writes a
// hold:{token} hash with the decremented quantities and indexes the hold by
// its deadline in a sorted set, so expired holds can be swept back into
// stock.
package inventorystore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/ports"
)

const (
	stockKeyPrefix  = "stock:"
	holdKeyPrefix   = "hold:"
	holdsByDeadline = "holds"
)

// reserveScript checks every non-backorderable line first and only then
// decrements, so a failed reservation never touches stock. KEYS[1] is the
// deadline index, KEYS[2] the hold hash, KEYS[3..] the stock keys; ARGV[1]
// is the deadline, followed by (quantity, backorder) pairs per line.
// Returns 0 on success or the 1-based index of the first line that lacks
// stock.
var reserveScript = redis.NewScript(`
local deadline = ARGV[1]
local n = #KEYS - 2

for i = 1, n do
	local qty = tonumber(ARGV[2 * i])
	local backorder = ARGV[2 * i + 1]
	if backorder == '0' then
		local current = tonumber(redis.call('GET', KEYS[2 + i]) or '0')
		if current < qty then
			return i
		end
	end
end

for i = 1, n do
	local qty = tonumber(ARGV[2 * i])
	redis.call('DECRBY', KEYS[2 + i], qty)
	redis.call('HSET', KEYS[2], KEYS[2 + i], qty)
end
redis.call('ZADD', KEYS[1], deadline, KEYS[2])
return 0
`)

// releaseScript re-increments every quantity held in the hash and removes
// the hold. Unknown holds return 0 so releasing twice is harmless.
var releaseScript = redis.NewScript(`
local fields = redis.call('HGETALL', KEYS[2])
if #fields == 0 then
	redis.call('ZREM', KEYS[1], KEYS[2])
	return 0
end

for i = 1, #fields, 2 do
	redis.call('INCRBY', fields[i], fields[i + 1])
end
redis.call('DEL', KEYS[2])
redis.call('ZREM', KEYS[1], KEYS[2])
return 1
`)

// commitScript drops the hold record, making the decrements permanent.
var commitScript = redis.NewScript(`
redis.call('ZREM', KEYS[1], KEYS[2])
return redis.call('DEL', KEYS[2])
`)

var _ ports.InventoryStore = (*RedisInventoryStore)(nil)

// RedisInventoryStore implements InventoryStore on a single Redis instance.
type RedisInventoryStore struct {
	client *redis.Client
}

// NewRedisInventoryStore creates an inventory store over the given client.
func NewRedisInventoryStore(client *redis.Client) *RedisInventoryStore {
	return &RedisInventoryStore{client: client}
}

// Reserve atomically decrements stock for every line under one script run
// and records an expiring hold. Lines for the same product must be folded
// by the caller before reserving.
func (s *RedisInventoryStore) Reserve(
	ctx context.Context, lines []ports.ReservationLine, ttl time.Duration,
) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}

	token := kernel.NewUUID().String()
	deadline := time.Now().Add(ttl).UnixMilli()

	keys := make([]string, 0, len(lines)+2)
	keys = append(keys, holdsByDeadline, holdKeyPrefix+token)
	argv := make([]interface{}, 0, len(lines)*2+1)
	argv = append(argv, deadline)
	for _, line := range lines {
		keys = append(keys, stockKeyPrefix+line.ProductID.String())
		backorder := "0"
		if line.AllowBackorder {
			backorder = "1"
		}
		argv = append(argv, line.Quantity, backorder)
	}

	result, err := reserveScript.Run(ctx, s.client, keys, argv...).Int()
	if err != nil {
		return "", err
	}
	if result > 0 {
		failed := lines[result-1]
		return "", ports.NewInsufficientStockError(failed.ProductID, failed.Quantity)
	}

	return token, nil
}

// Commit finalizes a hold. Unknown tokens are a no-op.
func (s *RedisInventoryStore) Commit(ctx context.Context, token string) error {
	return commitScript.Run(ctx, s.client, []string{holdsByDeadline, holdKeyPrefix + token}).Err()
}

// Release cancels a hold and restores the held quantities. Unknown tokens
// are a no-op.
func (s *RedisInventoryStore) Release(ctx context.Context, token string) error {
	return releaseScript.Run(ctx, s.client, []string{holdsByDeadline, holdKeyPrefix + token}).Err()
}

// ReleaseExpired releases every hold whose deadline passed before now.
// Each hold is released by its own atomic script run; a release that loses
// the race to a concurrent Commit finds an empty hash and restores nothing.
func (s *RedisInventoryStore) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	holdKeys, err := s.client.ZRangeByScore(ctx, holdsByDeadline, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}

	released := 0
	for _, holdKey := range holdKeys {
		result, runErr := releaseScript.Run(ctx, s.client, []string{holdsByDeadline, holdKey}).Int()
		if runErr != nil {
			return released, runErr
		}
		released += result
	}
	return released, nil
}

// SetStock sets the absolute stock level for a product, used when syncing
// counters from the catalog and by test fixtures.
func (s *RedisInventoryStore) SetStock(ctx context.Context, productID kernel.UUID, quantity int) error {
	return s.client.Set(ctx, stockKeyPrefix+productID.String(), quantity, 0).Err()
}

// GetStock reads the current stock level for a product; missing counters
// read as zero.
func (s *RedisInventoryStore) GetStock(ctx context.Context, productID kernel.UUID) (int, error) {
	value, err := s.client.Get(ctx, stockKeyPrefix+productID.String()).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return value, err
}
