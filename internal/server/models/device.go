package models

import "time"

// Device is a registered scale row. CachedDirty/CachedCount describe the
// server-side product cache for the device; AutoUpdateLastRun is nil until
// the auto-update runner has processed the device at least once.
type Device struct {
	ID                        int64
	OwnerID                   string
	Name                      string
	Description               string
	Host                      string
	Port                      int
	Protocol                  string
	CachedDirty               bool
	CachedCount               int
	AutoUpdateEnabled         bool
	AutoUpdateIntervalMinutes int
	AutoUpdateLastRun         *time.Time
	CreatedAt                 time.Time
}
