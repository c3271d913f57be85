package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the lock only when the caller still holds it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// SlotLock serializes reservation admission per (device, date) so two
// concurrent requests for the same slot cannot both reach the conflict
// check at once. It is advisory; the store transaction is the final word.
type SlotLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSlotLock(client *redis.Client, ttl time.Duration) *SlotLock {
	return &SlotLock{Client: client, TTL: ttl}
}

func slotLockKey(deviceID, date string) string {
	return fmt.Sprintf("slot_lock:%s:%s", deviceID, date)
}

// Acquire returns a release token, or "" when the lock is already held.
func (l *SlotLock) Acquire(ctx context.Context, deviceID, date string) (string, error) {
	token := uuid.New().String()
	ok, err := l.Client.SetNX(ctx, slotLockKey(deviceID, date), token, l.TTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release frees the lock if the token still owns it. Expired locks release
// themselves, so a failed release is not an error for the caller.
func (l *SlotLock) Release(ctx context.Context, deviceID, date, token string) error {
	_, err := releaseScript.Run(ctx, l.Client, []string{slotLockKey(deviceID, date)}, token).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
