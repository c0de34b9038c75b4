// Package cache provides a typed key/value cache over a TTL string
// store, with automatic splitting of oversized payloads across multiple
// backing slots.
//
// The backing store has a practical per-entry ceiling of about 128KB.
// Values whose serialized form exceeds the split threshold are chunked
// under derived keys and the parent entry records the ordered chunk-key
// list instead of the value; reads reassemble the chunks transparently.
//
// An entry can vanish at any time (cold cache, TTL expiry, store
// eviction): callers must treat every read as possibly absent and
// re-fetch on a miss.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ValueType tags a cached value with the type it was stored as. Reads
// must request the same type: a mismatch is a programming-contract
// violation, not a recoverable runtime case.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeObject  ValueType = "object"
)

// ErrTypeMismatch is returned when a value is read with a type
// different from the one it was stored with.
var ErrTypeMismatch = errors.New("cache: value type mismatch")

const (
	// Backing store per-entry ceiling is 128KB; the original store
	// counted 16-bit units, hence the halving. The margin leaves room
	// for the descriptor fields around the value.
	descriptorMargin = 2000
	maxValueLen      = (128*1024)/2 - descriptorMargin

	chunkKeyMarker = "$$$"
)

// descriptor is the stored form of an entry. Exactly one of Value or
// Keys is populated: Keys lists the chunk keys of an oversized value in
// reassembly order.
type descriptor struct {
	Value json.RawMessage `json:"value,omitempty"`
	Keys  []string        `json:"keys,omitempty"`
	Type  ValueType       `json:"type"`
	TTL   int64           `json:"ttl,omitempty"` // seconds, as passed through to the store
	Time  int64           `json:"time"`          // write timestamp, epoch milliseconds
}

// Cache is a typed cache over a Store.
type Cache struct {
	store Store
}

// New wraps a backing store as a typed cache.
func New(store Store) *Cache { return &Cache{store: store} }

// PutString stores a string value with an optional TTL (0 means the
// store's default).
func (c *Cache) PutString(key, value string, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: could not serialize string for %q: %w", key, err)
	}
	return c.putValue(key, raw, TypeString, ttl)
}

// GetString reads a string value. ok is false when the entry is absent.
func (c *Cache) GetString(key string) (value string, ok bool, err error) {
	raw, ok, err := c.getValue(key, TypeString)
	if err != nil || !ok {
		return "", ok, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		// Malformed payload: treat as a miss so the caller re-fetches.
		c.Remove(key)
		return "", false, nil
	}
	return value, true, nil
}

// PutNumber stores a numeric value.
func (c *Cache) PutNumber(key string, value float64, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: could not serialize number for %q: %w", key, err)
	}
	return c.putValue(key, raw, TypeNumber, ttl)
}

// GetNumber reads a numeric value.
func (c *Cache) GetNumber(key string) (value float64, ok bool, err error) {
	raw, ok, err := c.getValue(key, TypeNumber)
	if err != nil || !ok {
		return 0, ok, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.Remove(key)
		return 0, false, nil
	}
	return value, true, nil
}

// PutBool stores a boolean value.
func (c *Cache) PutBool(key string, value bool, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: could not serialize boolean for %q: %w", key, err)
	}
	return c.putValue(key, raw, TypeBoolean, ttl)
}

// GetBool reads a boolean value.
func (c *Cache) GetBool(key string) (value bool, ok bool, err error) {
	raw, ok, err := c.getValue(key, TypeBoolean)
	if err != nil || !ok {
		return false, ok, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.Remove(key)
		return false, false, nil
	}
	return value, true, nil
}

// PutObject stores any JSON-serializable value as an object.
func (c *Cache) PutObject(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: could not serialize object for %q: %w", key, err)
	}
	return c.putValue(key, raw, TypeObject, ttl)
}

// GetObject reads an object value into out. ok is false when the entry
// is absent or its payload no longer parses.
func (c *Cache) GetObject(key string, out any) (ok bool, err error) {
	raw, ok, err := c.getValue(key, TypeObject)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.Remove(key)
		return false, nil
	}
	return true, nil
}

// LastUpdated returns the time the entry was last written.
func (c *Cache) LastUpdated(key string) (time.Time, bool, error) {
	d, ok, err := c.readDescriptor(key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return time.UnixMilli(d.Time), true, nil
}

// Remove deletes the entry and every chunk key it references.
func (c *Cache) Remove(key string) error {
	d, ok, err := c.readDescriptor(key)
	if err == nil && ok {
		for _, k := range d.Keys {
			if err := c.store.Remove(k); err != nil {
				return err
			}
		}
	}
	return c.store.Remove(key)
}

func (c *Cache) putValue(key string, raw json.RawMessage, typ ValueType, ttl time.Duration) error {
	d := descriptor{
		Type: typ,
		TTL:  int64(ttl / time.Second),
		Time: time.Now().UnixMilli(),
	}
	if len(raw) > maxValueLen {
		rest := string(raw)
		for len(rest) > 0 {
			k := chunkKeyMarker + key + strconv.Itoa(len(d.Keys))
			n := min(len(rest), maxValueLen)
			if err := c.store.Put(k, rest[:n], ttl); err != nil {
				return fmt.Errorf("cache: could not store chunk %q: %w", k, err)
			}
			d.Keys = append(d.Keys, k)
			rest = rest[n:]
		}
	} else {
		d.Value = raw
	}
	content, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("cache: could not serialize entry for %q: %w", key, err)
	}
	return c.store.Put(key, string(content), ttl)
}

func (c *Cache) getValue(key string, expected ValueType) (json.RawMessage, bool, error) {
	d, ok, err := c.readDescriptor(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if d.Type != expected {
		return nil, false, fmt.Errorf("%w for %q: expected %s, stored %s", ErrTypeMismatch, key, expected, d.Type)
	}
	if len(d.Keys) == 0 {
		return d.Value, true, nil
	}
	// Reassemble an oversized value from its chunks, in stored order. A
	// missing chunk means the entry partially expired: report a miss.
	var value []byte
	for _, k := range d.Keys {
		chunk, ok, err := c.store.Get(k)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		value = append(value, chunk...)
	}
	return value, true, nil
}

// readDescriptor reads and decodes the parent entry. A payload that no
// longer decodes is dropped and reported as a miss.
func (c *Cache) readDescriptor(key string) (descriptor, bool, error) {
	content, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return descriptor{}, ok, err
	}
	var d descriptor
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		c.store.Remove(key)
		return descriptor{}, false, nil
	}
	return d, true, nil
}
