package printer

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

// bleConn is the write handle for an established BLE connection.
type bleConn interface {
	Write(p []byte) (int, error)
	Close() error
	Connected() bool
}

// Services whose characteristics are known printer write targets. Checked
// before falling back to the first discovered characteristic, since the
// GATT client API exposes no characteristic property flags.
var preferredWriteChars = []struct{ service, char uint16 }{
	{0x18F0, 0x2AF1}, // generic thermal printer service
	{0xFF00, 0xFF02}, // common Chinese label printer service
}

// gattConn wraps a GATT client whose write characteristic is resolved
// asynchronously after connect. Write fails until resolution completes.
type gattConn struct {
	mu        sync.Mutex
	device    bluetooth.Device
	writeChar *bluetooth.DeviceCharacteristic
	connected bool
}

var bleAdapter = bluetooth.DefaultAdapter

var (
	bleEnableMu sync.Mutex
	bleEnabled  bool
	bleEnableFn = func() error { return bleAdapter.Enable() }
)

// enableBLEAdapter enables the adapter once. Only success is latched: an
// adapter that is off at first use is retried on the next call, so BLE
// recovers when it is powered on later.
func enableBLEAdapter() error {
	bleEnableMu.Lock()
	defer bleEnableMu.Unlock()

	if bleEnabled {
		return nil
	}
	if err := bleEnableFn(); err != nil {
		return fmt.Errorf("%w: %v", ErrBLEUnsupported, err)
	}
	bleEnabled = true
	return nil
}

func parseBLEAddress(address string) (bluetooth.Address, error) {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return bluetooth.Address{}, fmt.Errorf("%w: bad address %q", ErrDeviceNotFound, address)
	}
	return bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, nil
}

// dialBLE opens a GATT connection. It returns as soon as the connect call
// is accepted; service discovery and write-characteristic resolution
// continue on a background goroutine, so Write may fail with
// ErrNoWriteCharacteristic for a short window after a successful dial.
func dialBLE(ctx context.Context, address string) (bleConn, error) {
	if err := enableBLEAdapter(); err != nil {
		return nil, err
	}

	addr, err := parseBLEAddress(address)
	if err != nil {
		return nil, err
	}

	device, err := bleAdapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrBLEUnsupported, address, err)
	}

	conn := &gattConn{device: device, connected: true}
	go conn.resolveWriteCharacteristic()
	return conn, nil
}

// resolveWriteCharacteristic discovers services and caches the first
// suitable write target. Preferred printer characteristics win; otherwise
// the first characteristic of the first service is used.
func (c *gattConn) resolveWriteCharacteristic() {
	services, err := c.device.DiscoverServices(nil)
	if err != nil || len(services) == 0 {
		return
	}

	var fallback *bluetooth.DeviceCharacteristic
	for i := range services {
		chars, err := services[i].DiscoverCharacteristics(nil)
		if err != nil {
			continue
		}
		for j := range chars {
			if fallback == nil {
				fallback = &chars[j]
			}
			for _, pref := range preferredWriteChars {
				if services[i].UUID() == bluetooth.New16BitUUID(pref.service) &&
					chars[j].UUID() == bluetooth.New16BitUUID(pref.char) {
					c.setWriteChar(&chars[j])
					return
				}
			}
		}
	}
	c.setWriteChar(fallback)
}

func (c *gattConn) setWriteChar(char *bluetooth.DeviceCharacteristic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected && c.writeChar == nil {
		c.writeChar = char
	}
}

func (c *gattConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	char := c.writeChar
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		return 0, ErrNotConnected
	}
	if char == nil {
		return 0, ErrNoWriteCharacteristic
	}

	// BLE writes are MTU-bound; chunk conservatively.
	const chunk = 20
	total := 0
	for len(p) > 0 {
		n := len(p)
		if n > chunk {
			n = chunk
		}
		written, err := char.WriteWithoutResponse(p[:n])
		total += written
		if err != nil {
			return total, err
		}
		p = p[n:]
	}
	return total, nil
}

func (c *gattConn) Close() error {
	c.mu.Lock()
	c.connected = false
	c.writeChar = nil
	c.mu.Unlock()
	return c.device.Disconnect()
}

func (c *gattConn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
