package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/profile"
	"github.com/cubefs/cubefs/blobstore/common/rpc"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cubefs/metabench/metrics"
)

const (
	defaultShutdownTimeoutS      = 10
	defaultReadRequestTimeoutS   = 30
	defaultWriteResponseTimeoutS = 30
)

// routes live on rpc.DefaultRouter, which is process wide.
var (
	registerOnce sync.Once
	statsServer  *Server
	statsLock    sync.RWMutex
)

type HttpServer struct {
	httpServer *http.Server
	listener   net.Listener

	*Server
}

func NewHttpServer(server *Server) *HttpServer {
	statsLock.Lock()
	statsServer = server
	statsLock.Unlock()
	return &HttpServer{Server: server}
}

func (h *HttpServer) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Info(err, "listen failed", addr)
	}
	ph := profile.NewProfileHandler(ln.Addr().String())
	httpServer := &http.Server{
		Handler:      rpc.MiddlewareHandlerWith(h.Handler(), ph),
		ReadTimeout:  defaultReadRequestTimeoutS * time.Second,
		WriteTimeout: defaultWriteResponseTimeoutS * time.Second,
	}
	go func() {
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server exits:", err)
		}
	}()
	h.httpServer = httpServer
	h.listener = ln

	log.Info("http server is running at:", ln.Addr().String())
	return nil
}

func (h *HttpServer) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

func (h *HttpServer) Stop() {
	if h.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeoutS*time.Second)
	defer cancel()

	h.httpServer.Shutdown(ctx)
}

func (h *HttpServer) Handler() *rpc.Router {
	registerOnce.Do(func() {
		rpc.GET("/stats", stats, rpc.OptArgsQuery())
		rpc.GET("/metrics", metricsHandler)
	})
	return rpc.DefaultRouter
}

func currentServer() *Server {
	statsLock.RLock()
	defer statsLock.RUnlock()
	return statsServer
}

func stats(c *rpc.Context) {
	s := currentServer()
	if s == nil {
		c.RespondStatus(http.StatusServiceUnavailable)
		return
	}
	ret, err := s.Stats(c.Request.Context())
	if err != nil {
		log.Errorf("get stats failed: %s", errors.Detail(err))
		c.RespondStatus(http.StatusInternalServerError)
		return
	}
	c.RespondJSON(ret)
}

var promHandler = promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})

func metricsHandler(c *rpc.Context) {
	if s := currentServer(); s != nil {
		s.Stats(c.Request.Context())
	}
	promHandler.ServeHTTP(c.Writer, c.Request)
}
