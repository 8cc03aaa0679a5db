package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"catalogdedup/internal/container"
)

// DefaultShutdownTimeout время на завершение активных запросов при остановке
const DefaultShutdownTimeout = 15 * time.Second

// Server HTTP сервер группировки с наблюдателем каталога и выгрузкой при остановке
type Server struct {
	container       *container.Container
	httpServer      *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New создает сервер поверх инициализированного контейнера
func New(c *container.Container) *Server {
	return &Server{
		container: c,
		httpServer: &http.Server{
			Addr:              ":" + c.Config.Port,
			Handler:           c.Router,
			ReadHeaderTimeout: 15 * time.Second,
			// загрузка большого файла ждет ответа модели на каждый элемент
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          c.Logger,
	}
}

// Listen открывает сокет. Вызывается Run автоматически, если не вызван раньше.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr адрес, на котором слушает сервер
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер,
// записывает снимок групп и закрывает контейнер
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server started", "addr", s.Addr())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if inbox := s.container.Inbox; inbox != nil {
		g.Go(func() error { return inbox.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	runErr := g.Wait()

	if _, err := s.container.UseCase.Dump(context.Background(), "shutdown"); err != nil {
		s.logger.Error("Failed to dump groups on shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if err := s.container.Close(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

func (s *Server) shutdown() error {
	s.logger.Info("Shutting down HTTP server", "timeout", s.shutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}
