package presence

import (
	"context"
	"dm-lab/contract"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker shares presence between several server instances.
// Keys used:
//   - {prefix}:conn:{username} set of connection ids, expires after ttl
//     unless refreshed by a new connection or a Refresh call.
//   - {prefix}:online set of usernames holding at least one connection.
//
// The conn key is the source of truth, the online set is only an index
// and is filtered against it when listed.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ contract.PresenceTracker = (*RedisTracker)(nil)

func NewRedisTracker(client *redis.Client, prefix string, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, prefix: prefix, ttl: ttl}
}

func (t *RedisTracker) connKey(username string) string {
	return fmt.Sprintf("%s:conn:%s", t.prefix, username)
}

func (t *RedisTracker) onlineKey() string {
	return fmt.Sprintf("%s:online", t.prefix)
}

func (t *RedisTracker) UserConnected(ctx context.Context, username, connectionID string) (bool, error) {
	var card *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, t.connKey(username), connectionID)
		if t.ttl > 0 {
			pipe.Expire(ctx, t.connKey(username), t.ttl)
		}
		pipe.SAdd(ctx, t.onlineKey(), username)
		card = pipe.SCard(ctx, t.connKey(username))
		return nil
	})
	if err != nil {
		return false, err
	}
	return card.Val() == 1, nil
}

// Refresh re-registers connectionID and pushes the expiry back by ttl.
func (t *RedisTracker) Refresh(ctx context.Context, username, connectionID string) error {
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, t.connKey(username), connectionID)
		if t.ttl > 0 {
			pipe.Expire(ctx, t.connKey(username), t.ttl)
		}
		pipe.SAdd(ctx, t.onlineKey(), username)
		return nil
	})
	return err
}

func (t *RedisTracker) UserDisconnected(ctx context.Context, username, connectionID string) (bool, error) {
	var removed, card *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.SRem(ctx, t.connKey(username), connectionID)
		card = pipe.SCard(ctx, t.connKey(username))
		return nil
	})
	if err != nil {
		return false, err
	}
	if card.Val() > 0 {
		return false, nil
	}
	if err = t.client.SRem(ctx, t.onlineKey(), username).Err(); err != nil {
		return false, err
	}
	return removed.Val() > 0, nil
}

func (t *RedisTracker) IsOnline(ctx context.Context, username string) (bool, error) {
	count, err := t.client.SCard(ctx, t.connKey(username)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// OnlineUsers drops usernames whose connections expired without a disconnect.
func (t *RedisTracker) OnlineUsers(ctx context.Context) ([]string, error) {
	members, err := t.client.SMembers(ctx, t.onlineKey()).Result()
	if err != nil {
		return nil, err
	}

	exists := make([]*redis.IntCmd, len(members))
	_, err = t.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, username := range members {
			exists[i] = pipe.Exists(ctx, t.connKey(username))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(members))
	for i, username := range members {
		if exists[i].Val() > 0 {
			users = append(users, username)
		}
	}
	sort.Strings(users)
	return users, nil
}
