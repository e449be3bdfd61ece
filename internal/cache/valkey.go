package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const ticketsListKey = "tickets:list"

// ValkeyClient caches the public ticket listing as raw JSON. Remaining
// counts appear in that listing, so every write path invalidates the key.
type ValkeyClient struct {
	client  *redis.Client
	listTTL time.Duration
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	listTTL := 30 * time.Second
	if val := os.Getenv("VALKEY_LIST_TTL"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			listTTL = parsed
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("VALKEY_PASSWORD"),
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:  rdb,
		listTTL: listTTL,
	}, nil
}

// GetTicketsListRaw returns the cached listing without re-unmarshaling it.
func (v *ValkeyClient) GetTicketsListRaw(ctx context.Context) ([]byte, error) {
	raw, err := v.client.Get(ctx, ticketsListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("tickets list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

// SetTicketsList stores the listing; cache errors are not fatal and are
// swallowed, the next read simply misses.
func (v *ValkeyClient) SetTicketsList(ctx context.Context, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	v.client.Set(ctx, ticketsListKey, raw, v.listTTL)
}

// InvalidateTicketsList drops the cached listing after any write that
// changes a remaining count or the catalog itself.
func (v *ValkeyClient) InvalidateTicketsList(ctx context.Context) {
	v.client.Del(ctx, ticketsListKey)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
