package scaleapi

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/common"
)

// Protocol selects the transport used to talk to a physical scale.
type Protocol string

const (
	ProtocolTCP Protocol = "TCP"
	ProtocolUDP Protocol = "UDP"
)

// AutoUpdateSpec is the writable part of a device's auto-update settings,
// the body of the auto-update PUT.
type AutoUpdateSpec struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// Validate rejects settings the scheduler could not run with.
func (s AutoUpdateSpec) Validate() error {
	if s.IntervalMinutes < 1 {
		return fmt.Errorf("%w: interval_minutes must be at least 1", common.ErrorValidation)
	}
	return nil
}

// AutoUpdate is the full auto-update state as served back to clients.
// LastRunUTC is nil until the first scheduled run completes.
type AutoUpdate struct {
	Enabled         bool       `json:"enabled"`
	IntervalMinutes int        `json:"interval_minutes"`
	LastRunUTC      *time.Time `json:"last_run_utc"`
}

// Device is a registered smart scale. CachedDirty means the server-side
// product cache holds edits not yet pushed to the physical device;
// CachedCount is the size of that cache.
type Device struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Host        string     `json:"host"`
	Port        int        `json:"port"`
	Protocol    Protocol   `json:"protocol"`
	CachedDirty bool       `json:"cached_dirty"`
	CachedCount int        `json:"cached_count"`
	AutoUpdate  AutoUpdate `json:"auto_update"`
}

// DeviceSpec is the body of device create and update requests.
type DeviceSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	Protocol    Protocol `json:"protocol"`
}

// Normalize trims free-text fields and upcases the protocol so that
// "tcp" and "TCP" mean the same thing before validation.
func (s DeviceSpec) Normalize() DeviceSpec {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.Host = strings.TrimSpace(s.Host)
	s.Protocol = Protocol(strings.ToUpper(string(s.Protocol)))
	return s
}

// Validate checks the spec against the device model rules: a name, a host
// that is an IP address or a plausible hostname, a port in 1..65535 and a
// known protocol.
func (s DeviceSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if !ValidHost(s.Host) {
		return fmt.Errorf("%w: host must be an IP address or hostname", common.ErrorValidation)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535", common.ErrorValidation)
	}
	if s.Protocol != ProtocolTCP && s.Protocol != ProtocolUDP {
		return fmt.Errorf("%w: protocol must be TCP or UDP", common.ErrorValidation)
	}
	return nil
}

// ValidHost reports whether h is an IP address or a syntactically valid
// hostname (dot-separated labels of letters, digits and inner hyphens).
func ValidHost(h string) bool {
	if h == "" || len(h) > 253 {
		return false
	}
	if net.ParseIP(h) != nil {
		return true
	}
	for _, label := range strings.Split(h, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}

// ParseDeviceID converts a device id as found in a URL path or typed at a
// prompt into its numeric form. Every id comparison downstream happens on
// the numeric value, so "7" and 7 can never name different devices.
func ParseDeviceID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid device id %q", common.ErrorValidation, s)
	}
	return id, nil
}
