package summaries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const summaryListKey = "combat:summaries:%s" // per-channel list

// redisSink implements Sink by appending JSON documents to a per-channel list.
type redisSink struct {
	client redis.UniversalClient
}

// NewRedisSink creates a Redis-backed summary sink
func NewRedisSink(client redis.UniversalClient) Sink {
	if client == nil {
		panic("redis client is required")
	}
	return &redisSink{client: client}
}

// Append writes one summary record
func (s *redisSink) Append(ctx context.Context, summary *Summary) error {
	if summary == nil {
		return fmt.Errorf("summary cannot be nil")
	}
	if summary.ChannelID == "" {
		return fmt.Errorf("summary channel ID cannot be empty")
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	key := fmt.Sprintf(summaryListKey, summary.ChannelID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append summary: %w", err)
	}

	return nil
}
