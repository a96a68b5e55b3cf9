package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cubefs/metabench/common/kvstore"
	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/master"
	"github.com/cubefs/metabench/master/store"
	"github.com/cubefs/metabench/proto"
)

func newTestServer(t *testing.T, maxInflight int) (*RPCServer, proto.FileSystemMasterClient, func()) {
	s, err := NewServer(context.TODO(), &Config{
		Config:      master.Config{StoreConfig: store.Config{KVType: kvstore.MemoryKVType}},
		MaxInflight: maxInflight,
	})
	require.NoError(t, err)
	rs := NewRPCServer(s)
	require.NoError(t, rs.Serve("127.0.0.1:0"))

	conn, err := grpc.Dial(rs.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	return rs, proto.NewFileSystemMasterClient(conn), func() {
		conn.Close()
		rs.Stop()
		s.Close()
	}
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(),
		proto.AuthTypeKey, proto.AuthTypeNoSASL, proto.ReqIdKey, "test-req-id")
}

func TestRPCServer_Master(t *testing.T) {
	_, cli, clean := newTestServer(t, 0)
	defer clean()
	ctx := authContext()

	_, err := cli.CreateDirectory(ctx, &proto.CreateDirectoryRequest{
		Path: proto.DefaultRootDir, Options: proto.DefaultCreateDirectoryOptions(),
	})
	require.NoError(t, err)
	_, err = cli.CreateDirectory(ctx, &proto.CreateDirectoryRequest{
		Path: proto.DefaultRootDir, Options: proto.DefaultCreateDirectoryOptions(),
	})
	require.Equal(t, codes.AlreadyExists, status.Code(err))
	require.ErrorIs(t, apierrors.FromStatus(err), apierrors.ErrFileAlreadyExists)

	created, err := cli.CreateFile(ctx, &proto.CreateFileRequest{
		Path: "/usertable/user1", Options: proto.DefaultCreateFileOptions(),
	})
	require.NoError(t, err)
	require.Equal(t, "user1", created.Info.Name)

	got, err := cli.GetStatus(ctx, &proto.GetStatusRequest{Path: "/usertable/user1"})
	require.NoError(t, err)
	require.Equal(t, created.Info.String(), got.Info.String())

	_, err = cli.SetAttribute(ctx, &proto.SetAttributeRequest{Path: "/usertable/user1"})
	require.NoError(t, err)

	list, err := cli.ListStatus(ctx, &proto.ListStatusRequest{Path: proto.DefaultRootDir})
	require.NoError(t, err)
	require.Len(t, list.Infos, 1)

	_, err = cli.Remove(ctx, &proto.RemoveRequest{Path: "/usertable/user1"})
	require.NoError(t, err)
	_, err = cli.Remove(ctx, &proto.RemoveRequest{Path: "/usertable/user1"})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = cli.GetStatus(ctx, &proto.GetStatusRequest{Path: "usertable"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRPCServer_Auth(t *testing.T) {
	_, cli, clean := newTestServer(t, 0)
	defer clean()

	_, err := cli.GetStatus(context.Background(), &proto.GetStatusRequest{Path: proto.RootPath})
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.ErrorIs(t, apierrors.FromStatus(err), apierrors.ErrUnsupportedAuth)

	ctx := metadata.AppendToOutgoingContext(context.Background(), proto.AuthTypeKey, "SIMPLE")
	_, err = cli.GetStatus(ctx, &proto.GetStatusRequest{Path: proto.RootPath})
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := cli.GetStatus(authContext(), &proto.GetStatusRequest{Path: proto.RootPath})
	require.NoError(t, err)
	require.True(t, resp.Info.Folder)
}

func TestRPCServer_InflightLimit(t *testing.T) {
	rs, cli, clean := newTestServer(t, 1)
	defer clean()

	require.NoError(t, rs.inflight.Acquire())
	_, err := cli.GetStatus(authContext(), &proto.GetStatusRequest{Path: proto.RootPath})
	require.Equal(t, codes.ResourceExhausted, status.Code(err))

	rs.inflight.Release()
	_, err = cli.GetStatus(authContext(), &proto.GetStatusRequest{Path: proto.RootPath})
	require.NoError(t, err)
}

func TestHttpServer_Stats(t *testing.T) {
	rs, cli, clean := newTestServer(t, 0)
	defer clean()

	for _, p := range []string{"/usertable/a", "/usertable/b"} {
		_, err := cli.CreateFile(authContext(), &proto.CreateFileRequest{Path: p, Options: proto.DefaultCreateFileOptions()})
		require.NoError(t, err)
	}

	h := NewHttpServer(rs.Server)
	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := master.Stats{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.Equal(t, int64(2), stats.Files)
	require.Equal(t, int64(1), stats.Directories)

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "metabench_master_namespace_entries"))
}
