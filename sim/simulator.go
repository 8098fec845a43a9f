package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"empirikit/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Simulator is one simulated device: engine, sensors and HTTP surface
type Simulator struct {
	cfg *Config
	log *logrus.Logger

	engine    *core.Engine
	transport *WSTransport
	touch     *Touch
	led       *LoggedLED
	panel     *LoggedPanel
	metrics   *prometheus.Registry
}

// New builds the simulator and its engine
func New(cfg *Config, log *logrus.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	uid, err := cfg.UID()
	if err != nil {
		return nil, err
	}

	BridgeDebug(log, log.IsLevelEnabled(logrus.DebugLevel))

	coreCfg := cfg.CoreConfig()
	clock := core.NewSystemClock()

	s := &Simulator{
		cfg:       cfg,
		log:       log,
		transport: NewWSTransport(log.WithField("component", "transport"), 64),
		touch:     NewTouch(clock, cfg.Sensors.Touch),
	}

	var indicator core.Indicator
	if cfg.Device.Variant == VariantText {
		s.panel = NewLoggedPanel(log)
		indicator = core.NewTextIndicator(s.panel)
	} else {
		s.led = NewLoggedLED(log)
		indicator = core.NewRGBIndicator(s.led)
	}

	s.engine, err = core.NewEngine(coreCfg, core.Hardware{
		Transport: s.transport,
		Accel:     NewWaveAccel(cfg.Sensors.Accel, clock, coreCfg.AccelFactor(), cfg.Sensors.Seed),
		Touch:     s.touch,
		Indicator: indicator,
		Clock:     clock,
		Info:      core.StaticInfo{Type: cfg.Device.DeviceType, ID: uid},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	s.metrics = NewMetrics(s.engine.Stats, s.transport)
	return s, nil
}

// Engine exposes the simulated device's engine
func (s *Simulator) Engine() *core.Engine {
	return s.engine
}

// Touch exposes the simulated touch sensor
func (s *Simulator) Touch() *Touch {
	return s.touch
}

// Handler serves the WebSocket link, the touch and indicator endpoints and
// the metrics
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.transport)
	mux.HandleFunc("/touch", s.handleTouch)
	mux.HandleFunc("/indicator", s.handleIndicator)
	mux.Handle(s.cfg.Server.MetricsPath, MetricsHandler(s.metrics))
	return mux
}

// RunEngine ticks the engine until ctx is cancelled
func (s *Simulator) RunEngine(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"variant":      s.cfg.Device.Variant,
		"rate_hz":      s.cfg.Device.DefaultRateHz,
		"log_capacity": s.engine.Log().Capacity(),
	}).Info("engine running")

	err := s.engine.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe runs the engine and the HTTP server until ctx is cancelled
func (s *Simulator) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	engineDone := make(chan error, 1)
	go func() { engineDone <- s.RunEngine(ctx) }()

	serveDone := make(chan error, 1)
	go func() {
		s.log.WithField("listen", srv.Addr).Info("simulator listening")
		serveDone <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveDone:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.transport.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.WithError(err).Warn("http shutdown")
	}
	return <-engineDone
}

func (s *Simulator) handleTouch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost, http.MethodPut:
		v, err := strconv.ParseInt(r.FormValue("value"), 10, 16)
		if err != nil {
			http.Error(w, "value must be a 16-bit integer", http.StatusBadRequest)
			return
		}
		s.touch.Set(int16(v))
		s.log.WithField("value", v).Info("touch set")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]int16{"value": s.touch.Value()})
}

func (s *Simulator) handleIndicator(w http.ResponseWriter, r *http.Request) {
	if s.led != nil {
		writeJSON(w, map[string][3]uint8{"rgb": s.led.Color()})
		return
	}
	writeJSON(w, map[string]string{"text": s.panel.Text()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func deadlineSoon() time.Time {
	return time.Now().Add(time.Second)
}
