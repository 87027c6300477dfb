package querycache

import "fmt"

// Resource names one of the four cacheable server resources.
type Resource string

const (
	ResourceDevices        Resource = "devices"
	ResourceDevice         Resource = "device"
	ResourceProductsCached Resource = "productsCached"
	ResourceAutoUpdate     Resource = "autoUpdate"
)

// Key addresses one cache slot. Keys are plain comparable values: the same
// logical resource always yields the same Key, so equality is canonical by
// construction. DeviceID is zero for the device list.
type Key struct {
	Resource Resource
	DeviceID int64
}

func (k Key) String() string {
	if k.Resource == ResourceDevices {
		return string(k.Resource)
	}
	return fmt.Sprintf("%s(%d)", k.Resource, k.DeviceID)
}

// Devices is the key of the device list.
func Devices() Key {
	return Key{Resource: ResourceDevices}
}

// Device is the key of one device's detail record.
func Device(id int64) Key {
	return Key{Resource: ResourceDevice, DeviceID: id}
}

// ProductsCached is the key of one device's cached product catalog.
func ProductsCached(id int64) Key {
	return Key{Resource: ResourceProductsCached, DeviceID: id}
}

// AutoUpdate is the key of one device's auto-update settings.
func AutoUpdate(id int64) Key {
	return Key{Resource: ResourceAutoUpdate, DeviceID: id}
}

// AfterDeviceListChange is the invalidation group for creating or deleting
// a device. The deleted device's own keys are Removed, not refreshed.
func AfterDeviceListChange() []Key {
	return []Key{Devices()}
}

// AfterDeviceChange is the invalidation group for editing a device record.
func AfterDeviceChange(id int64) []Key {
	return []Key{Device(id), Devices()}
}

// AfterProductChange is the invalidation group for everything that touches
// a device's product cache: fetching from the scale, patching one product,
// and pushing the cache back. All three flip server-side summary state
// (cached_dirty and list counters), hence the widening to device and list.
func AfterProductChange(id int64) []Key {
	return []Key{ProductsCached(id), Device(id), Devices()}
}

// AfterAutoUpdateChange is the invalidation group for changing auto-update
// settings.
func AfterAutoUpdateChange(id int64) []Key {
	return []Key{AutoUpdate(id), Device(id), Devices()}
}
