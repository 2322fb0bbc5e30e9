package printer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"instalabel-print/internal/metrics"
)

// Scan returns the paired devices immediately and starts an asynchronous
// BLE discovery that pushes newly found devices to onFound one at a time.
// There is no scan-complete signal; the caller stops discovery by
// cancelling ctx. If the adapter is off or scanning is not permitted the
// BLE part is silently skipped: paired devices are still returned and no
// error is raised.
func (m *Manager) Scan(ctx context.Context, onFound func(DiscoveredDevice)) ([]DiscoveredDevice, error) {
	paired, err := m.paired()
	if err != nil {
		paired = nil
	}

	if !m.powered() || onFound == nil {
		return paired, nil
	}

	go func() {
		if err := m.scanBLE(ctx, onFound); err != nil {
			m.log.Debug("ble scan stopped", zap.Error(err))
		}
	}()

	return paired, nil
}

// scanBLE runs the adapter scan until ctx is cancelled, pushing each
// address once. Discovered addresses are recorded in the technology cache
// as BLE so a later connect skips re-probing.
func scanBLE(ctx context.Context, onFound func(DiscoveredDevice)) error {
	if err := enableBLEAdapter(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		bleAdapter.StopScan()
	}()

	seen := make(map[string]bool)
	err := bleAdapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		addr := result.Address.String()
		if seen[addr] {
			return
		}
		seen[addr] = true

		cacheTechnology(addr, TechBLE)
		metrics.DevicesDiscovered.Inc()
		onFound(DiscoveredDevice{
			Address:    addr,
			Name:       result.LocalName(),
			Paired:     false,
			Technology: TechBLE,
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScanFailed, err)
	}
	return nil
}
