package printer

import (
	"os/exec"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Technology is the Bluetooth transport family of a device.
type Technology int

const (
	TechUnknown Technology = iota
	TechClassic
	TechBLE
	TechDual
)

func (t Technology) String() string {
	switch t {
	case TechClassic:
		return "CLASSIC"
	case TechBLE:
		return "BLE"
	case TechDual:
		return "DUAL"
	default:
		return "UNKNOWN"
	}
}

// DiscoveredDevice is one scan result.
type DiscoveredDevice struct {
	Address    string
	Name       string
	Paired     bool
	Technology Technology
}

// techCache caches detected technology per address. Entries never expire
// within a process lifetime.
var techCache = gocache.New(gocache.NoExpiration, 0)

// cacheTechnology records a detection result. Later detections only upgrade
// UNKNOWN entries; a determined technology is sticky.
func cacheTechnology(address string, tech Technology) {
	if cur, ok := techCache.Get(address); ok && cur.(Technology) != TechUnknown {
		return
	}
	techCache.Set(address, tech, gocache.NoExpiration)
}

// detectTechnology determines the transport family for an address, using
// the cache first, then the adapter's record of the device. Paired Classic
// devices expose a class-of-device field; LE-only devices do not.
func detectTechnology(address string) Technology {
	if cached, ok := techCache.Get(address); ok {
		if t := cached.(Technology); t != TechUnknown {
			return t
		}
	}

	tech := probeDeviceInfo(address)
	cacheTechnology(address, tech)
	return tech
}

// probeDeviceInfo asks bluetoothctl about the device. A "Class:" line means
// a BR/EDR (Classic) record exists; a random LE address type means BLE; both
// signals together mean a dual-mode device.
func probeDeviceInfo(address string) Technology {
	out, err := exec.Command("bluetoothctl", "info", address).Output()
	if err != nil {
		return TechUnknown
	}

	info := string(out)
	hasClass := strings.Contains(info, "Class:")
	isLE := strings.Contains(info, "AddressType: random") ||
		strings.Contains(strings.ToLower(info), "appearance")

	switch {
	case hasClass && isLE:
		return TechDual
	case hasClass:
		return TechClassic
	case isLE:
		return TechBLE
	default:
		return TechUnknown
	}
}
