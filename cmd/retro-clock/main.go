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

	"github.com/ledhaus/matrixd/internal/clock"
	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
	"github.com/ledhaus/matrixd/internal/render"
)

func main() {
	theme := flag.String("color-theme", render.DefaultTheme, "Color theme name")
	mode := flag.String("animation-mode", clock.ModeScrollDown, "Animation mode: simple or scroll_down")
	showAMPM := flag.Bool("show-ampm", true, "Show the am/pm indicator")
	brightness := flag.Int("led-brightness", 80, "Panel brightness (1-100)")
	timezone := flag.String("timezone", "Local", "IANA timezone name")
	controlPort := flag.Int("control-port", 0, "Loopback control port (0 disables)")
	flag.Parse()

	log := logging.NewDefault().Named("retro-clock")
	defer log.Sync()

	location, err := time.LoadLocation(*timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "retro-clock: unknown timezone %q: %v\n", *timezone, err)
		os.Exit(1)
	}

	metrics := monitoring.NewMetrics()
	buffer := render.NewBuffer(clock.GridWidth, clock.GridHeight, render.NullSink{})

	engine := clock.NewEngine(buffer, clock.Options{
		Theme:         *theme,
		AnimationMode: *mode,
		ShowAMPM:      *showAMPM,
		Brightness:    *brightness,
		Location:      location,
	}, log).WithMetrics(metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *controlPort > 0 {
		control := clock.NewControlServer(engine, metrics, *controlPort)
		go func() {
			if err := control.ListenAndServe(); err != nil {
				log.Warn("Control server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			control.Shutdown(shutdownCtx)
		}()
		log.Info("Control server listening", zap.Int("port", *controlPort))
	}

	engine.Run(ctx)
	log.Info("Clock stopped")
}
