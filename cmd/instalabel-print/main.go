// instalabel-print is the command line front end for the InstaLabel print
// core: scan for printers, render a label and spool it to the device.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"instalabel-print/internal/config"
	"instalabel-print/internal/imaging"
	"instalabel-print/internal/label"
	"instalabel-print/internal/printer"
	"instalabel-print/internal/spooler"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to yaml config file")
		scan        = flag.Bool("scan", false, "scan for printers and exit")
		scanTimeout = flag.Duration("scan-timeout", 10*time.Second, "how long to listen for BLE discoveries")
		address     = flag.String("address", "", "printer bluetooth address (overrides config)")
		port        = flag.String("port", "", "serial port override, skips bluetooth connect")
		model       = flag.String("model", "", "printer model name for protocol detection")
		protocol    = flag.String("protocol", "", "force protocol: TSPL, ESC/POS, ZPL, CPCL, EPL")
		raster      = flag.Bool("raster", false, "rasterize the label and send it as a TSPL bitmap")
		imagePath   = flag.String("image", "", "print an image file instead of text")

		header      = flag.String("header", "", "label header (item name)")
		expiry      = flag.String("expiry", "", "expiry line, pre-formatted")
		printed     = flag.String("printed", "", "printed-date line, pre-formatted")
		ingredients = flag.String("ingredients", "", "ingredients line")
		initials    = flag.String("initials", "", "staff initials line")
		barcode     = flag.String("barcode", "", "Code128 payload")
		qr          = flag.String("qr", "", "QR payload")
		copies      = flag.Int("copies", 1, "number of labels to queue")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *address != "" {
		cfg.Printer.Address = *address
	}
	if *port != "" {
		cfg.Printer.Port = *port
	}
	if *model != "" {
		cfg.Printer.Model = *model
	}
	if *protocol != "" {
		cfg.Printer.Protocol = *protocol
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := printer.NewManager(log)
	defer mgr.Disconnect()

	if *scan {
		runScan(ctx, mgr, *scanTimeout)
		return
	}

	cmd, err := renderCommand(cfg, *raster, *imagePath, label.LabelContent{
		Header:          *header,
		ExpiryLine:      *expiry,
		PrintedLine:     *printed,
		IngredientsLine: *ingredients,
		InitialsLine:    *initials,
		Barcode:         *barcode,
		QRData:          *qr,
	})
	if err != nil {
		log.Fatal("render failed", zap.Error(err))
	}

	if cfg.Printer.Model != "" {
		cmd = label.ApplyModelQuirks(cfg.Printer.Model, cmd)
	}

	if cfg.Printer.Port != "" {
		if err := mgr.ConnectPort(cfg.Printer.Port); err != nil {
			log.Fatal("port connect failed", zap.Error(err))
		}
	} else if cfg.Printer.Address == "" {
		log.Fatal("no printer address configured; use -address or -scan")
	}

	sp := spooler.New(mgr, cfg.Printer.Address, spooler.Options{
		ConnectRetries:  cfg.Spooler.ConnectRetries,
		RetryDelay:      cfg.Spooler.RetryDelay,
		InterLabelDelay: cfg.Spooler.InterLabelDelay,
		QueueSize:       *copies,
	}, log)

	done := make(chan struct{})
	go func() {
		sp.Run(ctx)
		close(done)
	}()

	for i := 0; i < *copies; i++ {
		id := sp.Enqueue(cmd)
		log.Info("label queued", zap.String("job", id.String()))
	}

	// Wait for the queue to drain; ctx only cuts the wait short on SIGINT.
	sp.Close()
	<-done
}

// renderCommand turns the CLI inputs into a protocol command string.
func renderCommand(cfg *config.Config, raster bool, imagePath string, content label.LabelContent) (string, error) {
	size := label.LabelSize{WidthMM: cfg.Label.WidthMM, HeightMM: cfg.Label.HeightMM}
	pc := label.PrinterConfig{
		DPI:       cfg.Printer.DPI,
		GapMM:     cfg.Label.GapMM,
		Direction: cfg.Label.Direction,
		Density:   cfg.Printer.Density,
	}

	widthPx := label.MMToDots(size.WidthMM, pc.DPI) / 8 * 8
	heightPx := label.MMToDots(size.HeightMM, pc.DPI)

	if imagePath != "" {
		img, err := imaging.LoadImage(imagePath)
		if err != nil {
			return "", err
		}
		data := imaging.PackMonochrome(img, widthPx, heightPx, 128, false)
		return label.RenderTSPLBitmap(size, pc, widthPx/8, heightPx, data), nil
	}

	if raster {
		img, err := imaging.RenderLines(content.Header, []string{
			content.ExpiryLine, content.PrintedLine, content.IngredientsLine, content.InitialsLine,
		}, widthPx, heightPx, imaging.DefaultTextOptions())
		if err != nil {
			return "", err
		}
		data := imaging.PackMonochrome(img, widthPx, heightPx, 128, false)
		return label.RenderTSPLBitmap(size, pc, widthPx/8, heightPx, data), nil
	}

	proto := label.Protocol(cfg.Printer.Protocol)
	if proto == "" {
		proto = label.DetectProtocol(cfg.Printer.Model, "")
	}
	return label.Render(label.LabelData{Content: content}, size, pc, proto), nil
}

// runScan prints paired devices immediately, then streams BLE discoveries
// until the timeout elapses. The caller owns the timeout; the scan itself
// has none.
func runScan(ctx context.Context, mgr *printer.Manager, timeout time.Duration) {
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	paired, err := mgr.Scan(scanCtx, func(d printer.DiscoveredDevice) {
		fmt.Printf("discovered  %-20s %s  [%s]\n", d.Address, d.Name, d.Technology)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan: %v\n", err)
		return
	}

	for _, d := range paired {
		fmt.Printf("paired      %-20s %s  [%s]  -> %s\n",
			d.Address, d.Name, d.Technology, label.DetectProtocol(d.Name, ""))
	}

	<-scanCtx.Done()
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err == nil {
		zc.Level = level
	}
	return zc.Build()
}
