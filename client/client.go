package client

import (
	"errors"
	"strings"
	"sync"

	"google.golang.org/grpc"

	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/util/limiter"
)

const (
	defaultMasterClientThreads = 4000
	defaultConnectTimeoutMs    = 3000
	defaultKeepaliveTimeoutS   = 20
	defaultBackoffBaseDelayMs  = 100
	defaultBackoffMaxDelayMs   = 5000
)

type (
	Config struct {
		// MasterAddresses is a comma separated host:port list.
		MasterAddresses     string          `json:"master_addresses"`
		MasterClientThreads int             `json:"master_client_threads"`
		AuthType            string          `json:"auth_type"`
		TransportConfig     TransportConfig `json:"transport"`
	}
	TransportConfig struct {
		ConnectTimeoutMs   uint32 `json:"connect_timeout_ms"`
		KeepaliveTimeoutS  uint32 `json:"keepalive_timeout_s"`
		BackoffBaseDelayMs uint32 `json:"backoff_base_delay_ms"`
		BackoffMaxDelayMs  uint32 `json:"backoff_max_delay_ms"`
	}
)

// Context is the client pool shared by every adapter of a process. It
// owns one connection to the masters and hands out reference counted
// MasterClient handles; the connection is closed once the context is
// closed and the last handle has been released.
type Context struct {
	conn    *grpc.ClientConn
	limiter limiter.Limiter
	client  proto.FileSystemMasterClient

	refs    int
	closing bool
	closed  bool
	lock    sync.Mutex
}

func NewContext(cfg *Config) (*Context, error) {
	if cfg.MasterAddresses == "" {
		return nil, errors.New("master address can't be nil")
	}
	fixConfig(cfg)
	if cfg.AuthType != proto.AuthTypeNoSASL {
		return nil, apierrors.ErrUnsupportedAuth
	}

	target := cfg.MasterAddresses
	if !strings.HasPrefix(target, lbResolverSchema+":///") {
		target = lbResolverSchema + ":///" + target
	}

	lim := limiter.NewLimiter(limiter.LimitConfig{Concurrency: cfg.MasterClientThreads})
	conn, err := grpc.Dial(target, generateDialOpts(cfg, lim)...)
	if err != nil {
		return nil, err
	}

	return &Context{
		conn:    conn,
		limiter: lim,
		client:  proto.NewFileSystemMasterClient(conn),
	}, nil
}

// AcquireMasterClient returns a handle that must be released by its Close.
func (c *Context) AcquireMasterClient() (*MasterClient, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closing || c.closed {
		return nil, apierrors.ErrContextClosed
	}
	c.refs++
	return &MasterClient{ctx: c, master: c.client}, nil
}

// Running returns the number of handles not yet released.
func (c *Context) Running() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.refs
}

func (c *Context) Target() string {
	return c.conn.Target()
}

func (c *Context) LimiterStatus() limiter.Status {
	return c.limiter.Status()
}

func (c *Context) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closing {
		return apierrors.ErrContextClosed
	}
	c.closing = true
	return c.closeLocked()
}

func (c *Context) release() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.refs--
	return c.closeLocked()
}

func (c *Context) closeLocked() error {
	if !c.closing || c.refs > 0 || c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func fixConfig(cfg *Config) {
	if cfg.MasterClientThreads <= 0 {
		cfg.MasterClientThreads = defaultMasterClientThreads
	}
	if cfg.AuthType == "" {
		cfg.AuthType = proto.AuthTypeNoSASL
	}
	tc := &cfg.TransportConfig
	if tc.ConnectTimeoutMs == 0 {
		tc.ConnectTimeoutMs = defaultConnectTimeoutMs
	}
	if tc.KeepaliveTimeoutS == 0 {
		tc.KeepaliveTimeoutS = defaultKeepaliveTimeoutS
	}
	if tc.BackoffBaseDelayMs == 0 {
		tc.BackoffBaseDelayMs = defaultBackoffBaseDelayMs
	}
	if tc.BackoffMaxDelayMs < tc.BackoffBaseDelayMs {
		tc.BackoffMaxDelayMs = defaultBackoffMaxDelayMs
	}
}
