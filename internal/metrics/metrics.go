// Package metrics exposes Prometheus collectors for the engine loop.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	Cycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledviz_engine_cycles_total",
			Help: "Engine cycles executed",
		},
	)

	Batches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledviz_engine_batches_total",
			Help: "Frame batches processed",
		},
	)

	Frames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledviz_engine_frames_total",
			Help: "Audio frames processed",
		},
	)

	Faults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledviz_engine_faults_total",
			Help: "Engine runs ended by a source or device failure",
		},
		[]string{"stage"},
	)

	FlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledviz_device_flush_seconds",
			Help:    "Time spent flushing color buffers to the device",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	ChannelLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ledviz_channel_level",
			Help: "Most recent envelope level per channel",
		},
		[]string{"channel"},
	)

	CaptureStalls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledviz_capture_stalls_total",
			Help: "Times the capture worker waited because the engine fell behind",
		},
	)

	Running = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledviz_engine_running",
			Help: "1 while an engine loop is running",
		},
	)
)

// ChannelLabel formats a channel index as a label value.
func ChannelLabel(ch int) string {
	return strconv.Itoa(ch)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
