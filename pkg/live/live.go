package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"healthsense.dev/telemetry-analytics/pkg/common"
)

// KeyPrefix scopes every live-alert key.
const KeyPrefix = "live:alerts:"

// DefaultTTL is how long a live alert stays visible without being
// re-triggered.
const DefaultTTL = 30 * time.Minute

// Entry is one live alert as stored in redis.
type Entry struct {
	ID        string `json:"id"`
	DeviceID  string `json:"deviceID"`
	Type      string `json:"type"`
	RiskScore int    `json:"riskScore"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Store keeps the short-lived "live alerts" collection in redis, beside the
// durable alert history in the relational store. Entries expire on their
// own; consumers poll Active for the current set.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func key(deviceID, id string) string {
	return KeyPrefix + deviceID + ":" + id
}

func (s *Store) Publish(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	err = s.client.Set(ctx, key(entry.DeviceID, entry.ID), payload, s.ttl).Err()
	if err == nil {
		common.GetLogger().Named(common.LoggerNameLiveStore).Info("Published live alert",
			zap.String("device_id", entry.DeviceID),
			zap.String("id", entry.ID))
	}
	return err
}

// Active returns the device's unexpired live alerts. Unreadable entries are
// skipped rather than failing the whole listing.
func (s *Store) Active(ctx context.Context, deviceID string) ([]Entry, error) {
	logger := common.GetLogger().Named(common.LoggerNameLiveStore)

	var keys []string
	iter := s.client.Scan(ctx, 0, KeyPrefix+deviceID+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []Entry{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			logger.Warn("Skipping unreadable live alert",
				zap.String("key", keys[i]),
				zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
