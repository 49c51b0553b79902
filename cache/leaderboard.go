package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// leaderboardTTL keeps stale tables from outliving the events that produced
// them; the league service rewrites the set after every recompute anyway.
const leaderboardTTL = 10 * time.Minute

type Entry struct {
	Key   string
	Score float64
}

// LeaderboardCache mirrors a league table into a Redis sorted set so the
// public top-N endpoint never has to touch Postgres.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

func (c *LeaderboardCache) leagueKey(leagueID int) string {
	return fmt.Sprintf("league:%d:scores", leagueID)
}

// Store replaces the whole cached table in one pipeline.
func (c *LeaderboardCache) Store(ctx context.Context, leagueID int, entries []Entry) error {
	key := c.leagueKey(leagueID)

	members := make([]redis.Z, 0, len(entries))
	for _, entry := range entries {
		members = append(members, redis.Z{Score: entry.Score, Member: entry.Key})
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, leaderboardTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing league %d leaderboard: %w", leagueID, err)
	}
	return nil
}

// TopN returns the highest-scoring identities, best first.
func (c *LeaderboardCache) TopN(ctx context.Context, leagueID, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.leagueKey(leagueID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading league %d leaderboard: %w", leagueID, err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: member, Score: z.Score})
	}
	return entries, nil
}

// Invalidate drops the cached table, used when a league closes.
func (c *LeaderboardCache) Invalidate(ctx context.Context, leagueID int) error {
	if err := c.client.Del(ctx, c.leagueKey(leagueID)).Err(); err != nil {
		return fmt.Errorf("invalidating league %d leaderboard: %w", leagueID, err)
	}
	return nil
}
