package config

import "time"

const (
	// Dashboard
	StatsCacheTTL = 60 * time.Second
	StatsCacheKey = "dashboard:stats"

	// Push
	PushChannel = "notify:push"

	// Limits
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
	MaxAttachments    = 10
)
