// File: utils/constants.go
package utils

import "time"

// TransitionChannel is the Redis channel on which session transition events are published.
const TransitionChannel = "sessions:transitions"

// SessionCachePrefix is the prefix used for Redis session cache keys.
const SessionCachePrefix = "session:"

// SessionCacheTTL is the time-to-live for cached session reads.
const SessionCacheTTL = 5 * time.Minute
