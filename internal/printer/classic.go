package printer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SPPUUID is the well-known Serial Port Profile service UUID used for
// Classic Bluetooth (RFCOMM) printer connections.
const SPPUUID = "00001101-0000-1000-8000-00805F9B34FB"

// sppChannel is the RFCOMM channel most SPP printers listen on.
const sppChannel = 1

// classicConn is the write handle for an established Classic connection.
type classicConn interface {
	Write(p []byte) (int, error)
	Close() error
	Connected() bool
}

// rfcommConn binds a /dev/rfcommN node to the printer's MAC and opens it as
// a serial port. Closing releases both. mu guards the fields against a
// Close racing an in-flight Write.
type rfcommConn struct {
	mu      sync.Mutex
	port    serial.Port
	devPath string
	mac     string
	cancel  context.CancelFunc
	cmd     *exec.Cmd
}

// listPairedDevices enumerates paired devices via bluetoothctl.
// Output lines look like "Device XX:XX:XX:XX:XX:XX Name".
func listPairedDevices() ([]DiscoveredDevice, error) {
	out, err := exec.Command("bluetoothctl", "devices", "Paired").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBluetoothUnavailable, err)
	}

	var devices []DiscoveredDevice
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Device ") {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(line, "Device "), " ", 2)
		if len(parts) != 2 {
			continue
		}
		devices = append(devices, DiscoveredDevice{
			Address:    parts[0],
			Name:       parts[1],
			Paired:     true,
			Technology: detectTechnology(parts[0]),
		})
	}
	return devices, nil
}

// adapterPowered reports whether a Bluetooth adapter is present and on.
func adapterPowered() bool {
	out, err := exec.Command("bluetoothctl", "show").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "Powered: yes")
}

// findFreeRFCOMMSlot finds an unused /dev/rfcommN device number.
func findFreeRFCOMMSlot() (string, int, error) {
	for i := 0; i < 10; i++ {
		devPath := fmt.Sprintf("/dev/rfcomm%d", i)
		out, _ := exec.Command("rfcomm", "show", devPath).Output()
		if len(out) == 0 || strings.Contains(string(out), "No such device") {
			return devPath, i, nil
		}
	}
	return "", -1, fmt.Errorf("%w: no free rfcomm slots", ErrClassicConnect)
}

// dialClassic establishes an RFCOMM/SPP connection to the given MAC and
// opens the resulting device node as a serial port. The blocking bind runs
// on its own goroutine; ctx cancels the wait, not an established link.
func dialClassic(ctx context.Context, address string) (classicConn, error) {
	if _, err := exec.LookPath("rfcomm"); err != nil {
		return nil, fmt.Errorf("%w: rfcomm tool not found", ErrClassicConnect)
	}

	devPath, devNum, err := findFreeRFCOMMSlot()
	if err != nil {
		return nil, err
	}

	bindCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(bindCtx, "rfcomm", "connect",
		fmt.Sprintf("/dev/rfcomm%d", devNum), address, fmt.Sprintf("%d", sppChannel))
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrClassicConnect, err)
	}

	// Wait off to the side for the device node to appear so the caller's
	// goroutine is only blocked on the channel, not on syscalls.
	ready := make(chan error, 1)
	go func() {
		deadline := time.Now().Add(15 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(devPath); err == nil {
				// Node exists; give the link a moment to settle.
				time.Sleep(500 * time.Millisecond)
				ready <- nil
				return
			}
			time.Sleep(500 * time.Millisecond)
		}
		ready <- fmt.Errorf("%w: timeout waiting for %s", ErrClassicConnect, devPath)
	}()

	select {
	case <-ctx.Done():
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrClassicConnect, ctx.Err())
	case err := <-ready:
		if err != nil {
			cancel()
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(devPath, mode)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: open %s: %v", ErrClassicConnect, devPath, err)
	}
	port.SetReadTimeout(3 * time.Second)

	return &rfcommConn{
		port:    port,
		devPath: devPath,
		mac:     address,
		cancel:  cancel,
		cmd:     cmd,
	}, nil
}

// dialSerialPort opens an already-bound serial device (manual port
// override, or a Windows Bluetooth COM port) without touching rfcomm.
func dialSerialPort(portName string) (classicConn, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrClassicConnect, portName, err)
	}
	port.SetReadTimeout(3 * time.Second)
	return &rfcommConn{port: port, devPath: portName}, nil
}

func (c *rfcommConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return 0, ErrNotConnected
	}
	n, err := c.port.Write(p)
	if err != nil {
		return n, err
	}
	// go.bug.st/serial buffers; push the job out before the caller moves on.
	if err := c.port.Drain(); err != nil {
		return n, err
	}
	return n, nil
}

func (c *rfcommConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.port != nil {
		err = c.port.Close()
		c.port = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.cmd != nil && c.cmd.Process != nil {
		c.cmd.Process.Kill()
		c.cmd.Wait()
		c.cmd = nil
	}
	return err
}

func (c *rfcommConn) Connected() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	port, devPath := c.port, c.devPath
	c.mu.Unlock()

	if port == nil {
		return false
	}
	if devPath == "" {
		return true
	}
	if strings.HasPrefix(devPath, "/dev/") {
		_, err := os.Stat(devPath)
		return err == nil
	}
	return true
}
