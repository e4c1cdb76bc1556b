// internal/tagdir/redis.go
package tagdir

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

// LoadRedis reads the tag table from one Redis hash.
// Field = hex tag id, value = "x,y" or a command string.
func LoadRedis(ctx context.Context, client *redis.Client, key string) (*Directory, error) {
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("tagdir: redis hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("tagdir: redis key %s is empty", key)
	}

	records := make(map[string]Record, len(fields))
	for id, v := range fields {
		records[id] = ParseValue(v)
	}

	return New(records), nil
}

// ParseValue reads "x,y" as a coordinate; anything else is a command.
func ParseValue(v string) Record {
	parts := strings.Split(v, ",")
	if len(parts) == 2 {
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errX == nil && errY == nil {
			return CoordinateRecord(x, y)
		}
	}
	return CommandRecord(v)
}
