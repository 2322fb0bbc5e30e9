// Package printer owns the Bluetooth printer connection: technology
// detection, Classic (RFCOMM/SPP) and BLE (GATT) transports, and the
// send path for generated label commands.
package printer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"instalabel-print/internal/metrics"
)

// Status is a non-blocking snapshot of the connection state.
type Status struct {
	Type             Technology
	Connected        bool
	ClassicConnected bool
	BLEConnected     bool
}

// Manager owns at most one active printer transport at a time. All state
// mutation goes through its methods; exactly one connection is assumed live.
type Manager struct {
	mu      sync.Mutex
	tech    Technology
	classic classicConn
	ble     bleConn

	log *zap.Logger

	// Dial and probe functions, replaceable in tests.
	dialClassic func(ctx context.Context, address string) (classicConn, error)
	dialBLE     func(ctx context.Context, address string) (bleConn, error)
	detectTech  func(address string) Technology
	powered     func() bool
	paired      func() ([]DiscoveredDevice, error)
	scanBLE     func(ctx context.Context, onFound func(DiscoveredDevice)) error
}

// NewManager creates a disconnected Manager using the real transports.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		tech:        TechUnknown,
		log:         log,
		dialClassic: dialClassic,
		dialBLE:     dialBLE,
		detectTech:  detectTechnology,
		powered:     adapterPowered,
		paired:      listPairedDevices,
		scanBLE:     scanBLE,
	}
}

// IsBluetoothEnabled reports whether a powered Bluetooth adapter is present.
func (m *Manager) IsBluetoothEnabled() bool {
	return m.powered()
}

// PairedDevices synchronously enumerates paired devices with their detected
// technology.
func (m *Manager) PairedDevices() ([]DiscoveredDevice, error) {
	return m.paired()
}

// Connect establishes a connection to the given address. Any prior
// connection is torn down first so repeated attempts never leak sockets.
// The technology is detected once at the start and fixed for this attempt.
func (m *Manager) Connect(ctx context.Context, address string) error {
	m.Disconnect()

	tech := m.detectTech(address)
	m.log.Info("connecting to printer",
		zap.String("address", address),
		zap.String("technology", tech.String()))

	var err error
	switch tech {
	case TechClassic:
		err = m.connectClassic(ctx, address)
	case TechBLE:
		err = m.connectBLE(ctx, address)
	case TechDual:
		err = m.connectDual(ctx, address)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownTechnology, address)
	}

	status := "ok"
	if err != nil {
		status = "error"
		m.log.Warn("connect failed", zap.String("address", address), zap.Error(err))
	}
	metrics.ConnectionsTotal.WithLabelValues(tech.String(), status).Inc()
	return err
}

// ConnectDual forces the dual-mode path regardless of detection: BLE first,
// Classic on synchronous BLE failure.
func (m *Manager) ConnectDual(ctx context.Context, address string) error {
	m.Disconnect()
	return m.connectDual(ctx, address)
}

// ConnectPort opens an already-bound serial device directly (manual
// override for pre-bound rfcomm nodes or Bluetooth COM ports).
func (m *Manager) ConnectPort(portName string) error {
	m.Disconnect()

	conn, err := dialSerialPort(portName)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.classic = conn
	m.tech = TechClassic
	m.mu.Unlock()
	return nil
}

func (m *Manager) connectClassic(ctx context.Context, address string) error {
	conn, err := m.dialClassic(ctx, address)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.classic = conn
	m.tech = TechClassic
	m.mu.Unlock()
	m.log.Info("classic connection established", zap.String("address", address))
	return nil
}

func (m *Manager) connectBLE(ctx context.Context, address string) error {
	conn, err := m.dialBLE(ctx, address)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ble = conn
	m.tech = TechBLE
	m.mu.Unlock()
	m.log.Info("ble connection established", zap.String("address", address))
	return nil
}

// connectDual tries BLE first. Only a synchronous BLE dial failure falls
// back to Classic; an asynchronous BLE drop after this point is not retried
// as Classic.
func (m *Manager) connectDual(ctx context.Context, address string) error {
	err := m.connectBLE(ctx, address)
	if err == nil {
		m.mu.Lock()
		m.tech = TechDual
		m.mu.Unlock()
		return nil
	}
	m.log.Debug("ble attempt failed, falling back to classic",
		zap.String("address", address), zap.Error(err))
	return m.connectClassic(ctx, address)
}

// Disconnect unconditionally closes both transports, whichever is active,
// and resets state. Close errors are swallowed: stale state is worse than a
// failed close, so callers can always call this safely.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	classic, ble := m.classic, m.ble
	m.classic = nil
	m.ble = nil
	m.tech = TechUnknown
	m.mu.Unlock()

	if classic != nil {
		if err := classic.Close(); err != nil {
			m.log.Debug("classic close error ignored", zap.Error(err))
		}
	}
	if ble != nil {
		if err := ble.Close(); err != nil {
			m.log.Debug("ble close error ignored", zap.Error(err))
		}
	}
}

// Send routes a generated protocol command to the active transport. It
// fails fast with ErrNotConnected when there is no usable handle; no
// partial I/O is attempted in that case.
func (m *Manager) Send(cmd string) error {
	m.mu.Lock()
	tech := m.tech
	classic := m.classic
	ble := m.ble
	m.mu.Unlock()

	var (
		n   int
		err error
	)
	switch {
	case tech == TechClassic && classic != nil:
		n, err = classic.Write([]byte(cmd))
	case (tech == TechBLE || tech == TechDual) && ble != nil:
		n, err = ble.Write([]byte(cmd))
	default:
		err = ErrNotConnected
	}

	status := "ok"
	if err != nil {
		status = "error"
		m.log.Warn("send failed", zap.String("technology", tech.String()), zap.Error(err))
	} else {
		metrics.BytesWritten.WithLabelValues(tech.String()).Add(float64(n))
	}
	metrics.PrintsTotal.WithLabelValues(tech.String(), status).Inc()
	if err != nil {
		return fmt.Errorf("print failed: %w", err)
	}
	return nil
}

// PrintTSPL sends a TSPL command stream.
func (m *Manager) PrintTSPL(cmd string) error { return m.Send(cmd) }

// PrintESC sends an ESC/POS byte stream.
func (m *Manager) PrintESC(cmd string) error { return m.Send(cmd) }

// PrintZPL sends a ZPL command stream.
func (m *Manager) PrintZPL(cmd string) error { return m.Send(cmd) }

// Status returns a snapshot of the connection state. Never blocks on I/O.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		Type:             m.tech,
		Connected:        m.tech != TechUnknown,
		ClassicConnected: m.classic != nil && m.classic.Connected(),
		BLEConnected:     m.ble != nil && m.ble.Connected(),
	}
}
