// Package slots caches computed day availability in redis.
//
// Layout:
//
//	slots:ver:{venue}                 generation counter of the venue
//	slots:{venue}:{gen}:{date}        hash, field "{service}:{staff}" -> JSON availability
//
// A booking change drops the hash of its day; a policy, rule or service change
// bumps the generation so every key of the venue is bypassed and later expires.
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Key identifies one cached availability entry
type Key struct {
	VenueID       int64
	ServiceID     int64
	StaffMemberID *int64
	Date          time.Time
}

func (k Key) field() string {
	var staff int64
	if k.StaffMemberID != nil {
		staff = *k.StaffMemberID
	}
	return fmt.Sprintf("%d:%d", k.ServiceID, staff)
}

// Cache кэш доступности поверх redis
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New создает кэш с указанным временем жизни записей
func New(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает закэшированную доступность; ok = false при промахе
func (c *Cache) Get(ctx context.Context, key Key) (*domain.DayAvailability, bool, error) {
	gen, err := c.generation(ctx, key.VenueID)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.HGet(ctx, dayKey(key.VenueID, gen, key.Date), key.field()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get - hget: %v", ErrCache, err)
	}

	var availability domain.DayAvailability
	if err := json.Unmarshal(data, &availability); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &availability, true, nil
}

// Set сохраняет доступность дня
func (c *Cache) Set(ctx context.Context, key Key, availability *domain.DayAvailability) error {
	gen, err := c.generation(ctx, key.VenueID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %v", ErrCache, err)
	}

	hashKey := dayKey(key.VenueID, gen, key.Date)
	if err := c.client.HSet(ctx, hashKey, key.field(), string(data)).Err(); err != nil {
		return fmt.Errorf("%w: Set - hset: %v", ErrCache, err)
	}
	if err := c.client.Expire(ctx, hashKey, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - expire: %v", ErrCache, err)
	}

	return nil
}

// InvalidateDay удаляет все записи площадки на дату
func (c *Cache) InvalidateDay(ctx context.Context, venueID int64, date time.Time) error {
	gen, err := c.generation(ctx, venueID)
	if err != nil {
		return err
	}

	if err := c.client.Del(ctx, dayKey(venueID, gen, date)).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateDay - del: %v", ErrCache, err)
	}
	return nil
}

// InvalidateVenue делает недействительными все записи площадки
func (c *Cache) InvalidateVenue(ctx context.Context, venueID int64) error {
	if err := c.client.Incr(ctx, generationKey(venueID)).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateVenue - incr: %v", ErrCache, err)
	}
	return nil
}

func (c *Cache) generation(ctx context.Context, venueID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(venueID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: generation - get: %v", ErrCache, err)
	}
	return gen, nil
}

func generationKey(venueID int64) string {
	return fmt.Sprintf("slots:ver:%d", venueID)
}

func dayKey(venueID, gen int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%s", venueID, gen, date.Format(domain.DateFormat))
}

// NopCache кэш-заглушка, когда redis выключен
type NopCache struct{}

// Get всегда промах
func (NopCache) Get(context.Context, Key) (*domain.DayAvailability, bool, error) {
	return nil, false, nil
}

// Set ничего не делает
func (NopCache) Set(context.Context, Key, *domain.DayAvailability) error { return nil }

// InvalidateDay ничего не делает
func (NopCache) InvalidateDay(context.Context, int64, time.Time) error { return nil }

// InvalidateVenue ничего не делает
func (NopCache) InvalidateVenue(context.Context, int64) error { return nil }
