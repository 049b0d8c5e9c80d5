package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const (
	_defaultAddr            = ":80"
	_defaultReadTimeout     = 5 * time.Second
	_defaultWriteTimeout    = 5 * time.Second
	_defaultShutdownTimeout = 3 * time.Second
	_defaultBodyLimit       = 4 * 1024 * 1024
)

// Server runs a fiber app in an errgroup. It reports ready between Start
// and the beginning of Shutdown.
type Server struct {
	eg *errgroup.Group

	App    *fiber.App
	notify chan error
	ready  atomic.Bool

	address         string
	prefork         bool
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	drainDelay      time.Duration
	bodyLimit       int

	logger logger.Interface
}

func New(l logger.Interface, opts ...Option) *Server {
	group, _ := errgroup.WithContext(context.Background())
	group.SetLimit(1)

	s := &Server{
		eg:              group,
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		readTimeout:     _defaultReadTimeout,
		writeTimeout:    _defaultWriteTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
		bodyLimit:       _defaultBodyLimit,
		logger:          l,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = fiber.New(fiber.Config{
		Prefork:               s.prefork,
		ReadTimeout:           s.readTimeout,
		WriteTimeout:          s.writeTimeout,
		BodyLimit:             s.bodyLimit,
		DisableStartupMessage: true,
		JSONDecoder:           json.Unmarshal,
		JSONEncoder:           json.Marshal,
	})

	return s
}

func (s *Server) Start() {
	s.ready.Store(true)

	s.eg.Go(func() error {
		err := s.App.Listen(s.address)
		if err != nil {
			s.ready.Store(false)
			s.notify <- err
			close(s.notify)

			return err
		}
		return nil
	})

	s.logger.Info("httpserver - Server - Start - listening on %s", s.address)
}

// Ready is false before Start and from the moment Shutdown begins.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown flips readiness off, waits drainDelay so probes can take the
// instance out of rotation, then stops the listener.
func (s *Server) Shutdown() error {
	s.ready.Store(false)

	if s.drainDelay > 0 {
		s.logger.Info("httpserver - Server - Shutdown - draining for %s", s.drainDelay)
		time.Sleep(s.drainDelay)
	}

	var shutdownErrors []error

	err := s.App.ShutdownWithTimeout(s.shutdownTimeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "httpserver - Server - Shutdown - s.App.ShutdownWithTimeout")

		shutdownErrors = append(shutdownErrors, err)
	}

	err = s.eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "httpserver - Server - Shutdown - s.eg.Wait")

		shutdownErrors = append(shutdownErrors, err)
	}

	s.logger.Info("httpserver - Server - Shutdown - stopped")

	return errors.Join(shutdownErrors...)
}
