package transport

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	serial "go.bug.st/serial"
)

// SerialConfig describes the serial port to read device traffic from.
type SerialConfig struct {
	Port     string
	BaudRate int
}

// Serial reads raw bytes from a serial port, reassembles frames with the
// attached Framer, and hands each complete frame to the handler. Frames are
// delivered one at a time: the handler returns before the next frame is
// extracted, so decodes never overlap.
type Serial struct {
	cfg     SerialConfig
	framer  *Framer
	handler func([]byte)
	port    serial.Port
	log     zerolog.Logger
}

// NewSerial creates a serial transport. The handler is invoked from the read
// loop goroutine for every complete frame.
func NewSerial(cfg SerialConfig, framer *Framer, handler func([]byte), log zerolog.Logger) *Serial {
	return &Serial{
		cfg:     cfg,
		framer:  framer,
		handler: handler,
		log:     log.With().Str("component", "serial").Logger(),
	}
}

// Open opens the configured port.
func (s *Serial) Open() error {
	p, err := serial.Open(s.cfg.Port, &serial.Mode{BaudRate: s.cfg.BaudRate})
	if err != nil {
		return fmt.Errorf("open serial %s: %w", s.cfg.Port, err)
	}
	s.port = p
	s.log.Info().Str("port", s.cfg.Port).Int("baud", s.cfg.BaudRate).Msg("serial port open")
	return nil
}

// Run reads from the port until the context is cancelled or the port fails.
// Cancelling the context closes the port, which unblocks the pending read.
func (s *Serial) Run(ctx context.Context) error {
	if s.port == nil {
		return fmt.Errorf("serial port not open")
	}

	go func() {
		<-ctx.Done()
		_ = s.port.Close()
	}()

	buf := make([]byte, 4096)
	for {
		n, err := s.port.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			continue
		}
		for _, frame := range s.framer.Feed(buf[:n]) {
			s.handler(frame)
		}
	}
}

// Close closes the port if open.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
