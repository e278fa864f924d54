package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/capture"
	"github.com/cwbudde/algo-ledviz/device"
	"github.com/cwbudde/algo-ledviz/engine"
	"github.com/cwbudde/algo-ledviz/internal/settings"
)

// source is an engine source that holds an OS resource.
type source interface {
	engine.Source
	Close() error
}

// stdinReader hides the Close of the process input from the pipe source.
type stdinReader struct{ io.Reader }

func openSource(ctx context.Context, a settings.Audio, stdin io.Reader, log zerolog.Logger) (source, error) {
	buf, err := a.BufferDuration()
	if err != nil {
		return nil, err
	}

	opts := []capture.Option{
		capture.WithBuffer(buf),
		capture.WithRawFormat(capture.RawFormat{SampleRate: a.SampleRate, Channels: a.Channels}),
		capture.WithLoop(a.Loop),
		capture.WithLogger(log),
	}

	switch a.Input {
	case "-":
		return capture.NewPipeSource(stdinReader{stdin}, opts...)
	case "":
		return capture.StartCommand(ctx, a.Command, opts...)
	default:
		return capture.OpenFileSource(a.Input, opts...)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openDevice(d settings.Device, preview io.Writer) (engine.Device, io.Closer, error) {
	layout := device.DefaultLayout()

	if d.Layout != "" {
		l, err := device.LoadLayout(d.Layout)
		if err != nil {
			return nil, nil, err
		}

		layout = l
	}

	switch d.Kind {
	case settings.DeviceMemory:
		return device.NewMemory(layout.Lengths()...), nopCloser{}, nil
	case settings.DeviceTerminal:
		return device.NewTerminal(preview, layout), nopCloser{}, nil
	case settings.DeviceArtNet:
		a, err := device.DialArtNet(d.Address, layout, d.Sync)
		if err != nil {
			return nil, nil, err
		}

		return a, a, nil
	default:
		return nil, nil, fmt.Errorf("unknown device kind %q", d.Kind)
	}
}
