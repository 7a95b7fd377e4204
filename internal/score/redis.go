package score

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key this package writes.
const keyPrefix = "flappy"

func playerKey(player, key string) string {
	return keyPrefix + ":player:" + player + ":" + key
}

func boardKey(key string) string {
	return keyPrefix + ":board:" + key
}

// RedisStore keeps one player's values in Redis. Every write also ranks the
// player on the sorted-set leaderboard for that key.
type RedisStore struct {
	client *redis.Client
	player string
}

// NewRedisStore returns a store for player on a shared client. Close does
// not close the client.
func NewRedisStore(client *redis.Client, player string) *RedisStore {
	return &RedisStore{client: client, player: player}
}

func (r *RedisStore) Int(ctx context.Context, key string) (int, error) {
	v, err := r.client.Get(ctx, playerKey(r.player, key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) SetInt(ctx context.Context, key string, value int) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerKey(r.player, key), value, 0)
		pipe.ZAdd(ctx, boardKey(key), redis.Z{Score: float64(value), Member: r.player})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return nil
}

// Entry is one leaderboard row.
type Entry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Leaderboard reads the ranking written by RedisStore.
type Leaderboard struct {
	client *redis.Client
	key    string
}

// NewLeaderboard returns the leaderboard for a store key such as "BEST".
func NewLeaderboard(client *redis.Client, key string) *Leaderboard {
	return &Leaderboard{client: client, key: key}
}

// Top returns the n best players, highest first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, boardKey(l.key), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		player, _ := z.Member.(string)
		entries = append(entries, Entry{Player: player, Score: int(z.Score)})
	}
	return entries, nil
}
