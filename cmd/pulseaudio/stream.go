package main

import (
	"strings"

	"github.com/gordonklaus/portaudio"
)

// inputStream wraps a portaudio.Stream opened for mono input, buffering
// samples as float32 in [-1, 1].
type inputStream struct {
	stream *portaudio.Stream
	buf    []float32
}

func openInputStream(deviceSubstr string, sampleRate float64, frames int) (*inputStream, error) {
	buf := make([]float32, frames)

	var dev *portaudio.DeviceInfo
	if deviceSubstr != "" {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		for _, d := range devices {
			if d.MaxInputChannels > 0 && strings.Contains(d.Name, deviceSubstr) {
				dev = d
				break
			}
		}
	}

	var stream *portaudio.Stream
	var err error
	if dev != nil {
		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: 1,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      sampleRate,
			FramesPerBuffer: frames,
		}
		stream, err = portaudio.OpenStream(params, buf)
	} else {
		stream, err = portaudio.OpenDefaultStream(1, 0, sampleRate, frames, buf)
	}
	if err != nil {
		return nil, err
	}
	return &inputStream{stream: stream, buf: buf}, nil
}

func (s *inputStream) Start() error { return s.stream.Start() }
func (s *inputStream) Stop() error  { return s.stream.Stop() }
func (s *inputStream) Close() error { return s.stream.Close() }

func (s *inputStream) Read() ([]float32, error) {
	if err := s.stream.Read(); err != nil {
		return nil, err
	}
	return s.buf, nil
}
