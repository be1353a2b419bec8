// Package cache provides process-local TTL caches for catalog reference data.
//
// Entries expire when now - fetchedAt >= ttl, where fetchedAt is stamped after
// the fetch completes. A failed fetch never populates a cache and stale data
// is never served in its place.
package cache

import "time"

// Recorder observes cache lookups.
type Recorder interface {
	RecordCacheLookup(cache string, hit bool)
}

// Options configures a cache instance.
type Options struct {
	Name     string
	TTL      time.Duration
	Now      func() time.Time
	Recorder Recorder
}

func (o Options) normalise() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TTL <= 0 {
		o.TTL = time.Hour
	}
	return o
}

func (o Options) record(hit bool) {
	if o.Recorder != nil {
		o.Recorder.RecordCacheLookup(o.Name, hit)
	}
}

func expired(now, fetchedAt time.Time, ttl time.Duration) bool {
	return now.Sub(fetchedAt) >= ttl
}
