package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// KeyPrefix namespaces every harunode key.
	KeyPrefix = "haru:"
	// KeyLog holds the full activity log as one JSON array.
	KeyLog = "haru:log"
	// KeyRecommendHistory holds candidate id -> last recommendation time.
	KeyRecommendHistory = "haru:recommend:history"
	// KeyPrefixInsight is the prefix for fingerprint-keyed insight entries.
	KeyPrefixInsight = "haru:insight:fp:"
	// KeyRecentQuotes holds the rolling list of recently shown quotes.
	KeyRecentQuotes = "haru:insight:recent-quotes"
)

// InsightKey returns the key of the insight entry for a log fingerprint.
func InsightKey(count int, latest time.Time) string {
	var nanos int64
	if !latest.IsZero() {
		nanos = latest.UnixNano()
	}
	return fmt.Sprintf("%s%d:%d", KeyPrefixInsight, count, nanos)
}

// ParseInsightKey extracts the fingerprint parts from an insight key.
func ParseInsightKey(key string) (int, int64, error) {
	if !strings.HasPrefix(key, KeyPrefixInsight) || len(key) <= len(KeyPrefixInsight) {
		return 0, 0, fmt.Errorf("invalid insight key: %s", key)
	}
	parts := strings.SplitN(key[len(KeyPrefixInsight):], ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid insight key: %s", key)
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid insight key count: %s", key)
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid insight key timestamp: %s", key)
	}
	return count, nanos, nil
}
