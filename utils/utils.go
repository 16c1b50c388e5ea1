package utils

import (
	"net/url"
	"strings"
	"time"
)

const (
	MaxURLLength = 2048
)

// IsValidURL accepts absolute http and https URLs with a host.
func IsValidURL(rawURL string) bool {

	if rawURL == "" || len(rawURL) > MaxURLLength {
		return false
	}

	// url.Parse is permissive: relative references and bare words parse
	// fine, so scheme and host are checked explicitly
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	return u.Hostname() != ""
}

// Get current time in millis
func GetCurrentTimeMillis() int64 {
	return TimeToMillis(time.Now())
}

// Return time as millis
func TimeToMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func UnixMillisToTime(timestamp int64) time.Time {
	seconds := timestamp / 1000
	millis := timestamp % 1000
	return time.Unix(seconds, millis*int64(time.Millisecond))
}

func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
