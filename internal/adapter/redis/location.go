package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

// Client is the part of go-redis the cache needs.
type Client interface {
	Eval(ctx context.Context, script string, keys []string, args ...any) *goredis.Cmd
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// putScript writes the ping unless the stored one is newer. ARGV: ts,
// driver_id, lat, lon, address, speed, ttl_ms.
const putScript = `
local cur = redis.call('HGET', KEYS[1], 'ts')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'ts', ARGV[1], 'driver_id', ARGV[2], 'lat', ARGV[3], 'lon', ARGV[4], 'address', ARGV[5], 'speed', ARGV[6])
if tonumber(ARGV[7]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[7])
end
return 1
`

// LocationCache keeps the latest ping of each ride in a Redis hash. The TTL
// only reclaims keys of rides that were never evicted.
type LocationCache struct {
	client Client
	ttl    time.Duration
}

func NewLocationCache(client Client, ttl time.Duration) *LocationCache {
	return &LocationCache{client: client, ttl: ttl}
}

func locationKey(rideID uuid.UUID) string {
	return "ride:location:" + rideID.String()
}

func (c *LocationCache) Put(ctx context.Context, ping models.LocationPing) (bool, error) {
	const op = "LocationCache.Put"

	n, err := c.client.Eval(ctx, putScript, []string{locationKey(ping.RideID)}, encodePing(ping, c.ttl)...).Int()
	if err != nil {
		return false, classify(ctx, op, err)
	}
	return n == 1, nil
}

func (c *LocationCache) Get(ctx context.Context, rideID uuid.UUID) (*models.LocationPing, error) {
	const op = "LocationCache.Get"

	fields, err := c.client.HGetAll(ctx, locationKey(rideID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, types.ErrLocationNotFound
		}
		return nil, classify(ctx, op, err)
	}
	if len(fields) == 0 {
		return nil, types.ErrLocationNotFound
	}

	ping, err := decodePing(rideID, fields)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return ping, nil
}

func (c *LocationCache) Delete(ctx context.Context, rideID uuid.UUID) error {
	if err := c.client.Del(ctx, locationKey(rideID)).Err(); err != nil {
		return classify(ctx, "LocationCache.Delete", err)
	}
	return nil
}

func encodePing(p models.LocationPing, ttl time.Duration) []any {
	speed := ""
	if p.SpeedMps != nil {
		speed = formatFloat(*p.SpeedMps)
	}
	return []any{
		p.Timestamp.UnixMicro(),
		p.DriverID,
		formatFloat(p.Location.Latitude),
		formatFloat(p.Location.Longitude),
		p.Location.Address,
		speed,
		ttl.Milliseconds(),
	}
}

func decodePing(rideID uuid.UUID, f map[string]string) (*models.LocationPing, error) {
	ts, err := strconv.ParseInt(f["ts"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad ts %q: %w", f["ts"], err)
	}
	lat, err := strconv.ParseFloat(f["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("bad lat %q: %w", f["lat"], err)
	}
	lon, err := strconv.ParseFloat(f["lon"], 64)
	if err != nil {
		return nil, fmt.Errorf("bad lon %q: %w", f["lon"], err)
	}

	ping := &models.LocationPing{
		RideID:    rideID,
		DriverID:  f["driver_id"],
		Location:  models.Location{Latitude: lat, Longitude: lon, Address: f["address"]},
		Timestamp: time.UnixMicro(ts).UTC(),
	}
	if s := f["speed"]; s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad speed %q: %w", s, err)
		}
		ping.SpeedMps = &v
	}
	return ping, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// classify maps network and timeout failures to ErrServiceUnavailable.
func classify(ctx context.Context, op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, goredis.ErrClosed) {
		err = types.Unavailable(err)
	}
	return wrap.Error(wrap.WithAction(ctx, types.ActionCacheFailed), fmt.Errorf("%s: %w", op, err))
}
