package printer

import "errors"

// Error taxonomy for connection and print failures. Operations wrap these
// with context via fmt.Errorf("...: %w", ...) so callers can match with
// errors.Is.
var (
	ErrBluetoothUnavailable  = errors.New("bluetooth adapter unavailable")
	ErrDeviceNotFound        = errors.New("device not found")
	ErrUnknownTechnology     = errors.New("unknown device technology")
	ErrClassicConnect        = errors.New("classic bluetooth connection failed")
	ErrBLEUnsupported        = errors.New("ble not supported on this system")
	ErrScanFailed            = errors.New("device scan failed")
	ErrNotConnected          = errors.New("no active printer connection")
	ErrNoWriteCharacteristic = errors.New("ble write characteristic not resolved yet")
)
