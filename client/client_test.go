package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metabench/common/kvstore"
	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/master"
	"github.com/cubefs/metabench/master/store"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/server"
)

func newTestContext(t *testing.T, threads int) (*Context, func()) {
	s, err := server.NewServer(context.TODO(), &server.Config{
		Config: master.Config{StoreConfig: store.Config{KVType: kvstore.MemoryKVType}},
	})
	require.NoError(t, err)
	rs := server.NewRPCServer(s)
	require.NoError(t, rs.Serve("127.0.0.1:0"))

	c, err := NewContext(&Config{MasterAddresses: rs.Addr(), MasterClientThreads: threads})
	require.NoError(t, err)
	return c, func() {
		rs.Stop()
		s.Close()
	}
}

func TestNewContext_Config(t *testing.T) {
	_, err := NewContext(&Config{})
	require.Error(t, err)

	_, err = NewContext(&Config{MasterAddresses: "127.0.0.1:19998", AuthType: "KERBEROS"})
	require.ErrorIs(t, err, apierrors.ErrUnsupportedAuth)

	cfg := &Config{MasterAddresses: "127.0.0.1:19998"}
	c, err := NewContext(cfg)
	require.NoError(t, err)
	require.Equal(t, proto.AuthTypeNoSASL, cfg.AuthType)
	require.Equal(t, defaultMasterClientThreads, cfg.MasterClientThreads)
	require.Equal(t, uint32(defaultConnectTimeoutMs), cfg.TransportConfig.ConnectTimeoutMs)
	require.Equal(t, lbResolverSchema+":///127.0.0.1:19998", c.Target())
	require.Equal(t, defaultMasterClientThreads, c.LimiterStatus().Config.Concurrency)
	require.NoError(t, c.Close())
}

func TestMasterClient(t *testing.T) {
	c, clean := newTestContext(t, 4)
	defer clean()
	ctx := context.TODO()

	cli, err := c.AcquireMasterClient()
	require.NoError(t, err)

	require.NoError(t, cli.CreateDirectory(ctx, proto.DefaultRootDir, proto.DefaultCreateDirectoryOptions()))
	err = cli.CreateDirectory(ctx, proto.DefaultRootDir, proto.DefaultCreateDirectoryOptions())
	require.ErrorIs(t, err, apierrors.ErrFileAlreadyExists)

	info, err := cli.CreateFile(ctx, "/usertable/user1", proto.DefaultCreateFileOptions())
	require.NoError(t, err)
	require.Equal(t, "/usertable/user1", info.Path)

	got, err := cli.GetStatus(ctx, "/usertable/user1")
	require.NoError(t, err)
	require.Equal(t, info.FileId, got.FileId)

	require.NoError(t, cli.SetAttribute(ctx, "/usertable/user1", proto.DefaultSetAttributeOptions()))

	infos, err := cli.ListStatus(ctx, proto.DefaultRootDir, proto.DefaultListStatusOptions())
	require.NoError(t, err)
	require.Len(t, infos, 1)

	require.NoError(t, cli.Delete(ctx, "/usertable/user1", proto.DefaultDeleteOptions()))
	err = cli.Delete(ctx, "/usertable/user1", proto.DefaultDeleteOptions())
	require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)
	_, err = cli.GetStatus(ctx, "/usertable/user1")
	require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)

	require.NoError(t, cli.Close())
	require.ErrorIs(t, cli.Close(), apierrors.ErrClientClosed)
	require.NoError(t, c.Close())
}

func TestContext_RefCount(t *testing.T) {
	c, clean := newTestContext(t, 4)
	defer clean()
	ctx := context.TODO()

	first, err := c.AcquireMasterClient()
	require.NoError(t, err)
	second, err := c.AcquireMasterClient()
	require.NoError(t, err)
	require.Equal(t, 2, c.Running())

	require.NoError(t, first.Close())
	require.Equal(t, 1, c.Running())

	// the connection stays open while a handle is held
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Close(), apierrors.ErrContextClosed)
	_, err = c.AcquireMasterClient()
	require.ErrorIs(t, err, apierrors.ErrContextClosed)

	_, err = second.GetStatus(ctx, proto.RootPath)
	require.NoError(t, err)

	require.NoError(t, second.Close())
	require.Equal(t, 0, c.Running())
	_, err = second.GetStatus(ctx, proto.RootPath)
	require.Error(t, err)
}
