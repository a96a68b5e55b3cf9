package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metabench/adapter"
	"github.com/cubefs/metabench/common/kvstore"
	"github.com/cubefs/metabench/master"
	"github.com/cubefs/metabench/master/store"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/server"
)

func TestRunner_Adapter(t *testing.T) {
	s, err := server.NewServer(context.TODO(), &server.Config{
		Config: master.Config{StoreConfig: store.Config{KVType: kvstore.MemoryKVType}},
	})
	require.NoError(t, err)
	defer s.Close()
	rs := server.NewRPCServer(s)
	require.NoError(t, rs.Serve("127.0.0.1:0"))
	defer rs.Stop()

	binding, err := adapter.NewBinding(&adapter.Config{
		Master:    adapter.MasterConfig{Addresses: rs.Addr()},
		Client:    adapter.ClientOptions{Threads: 8},
		Namespace: adapter.NamespaceConfig{Root: proto.DefaultRootDir},
	})
	require.NoError(t, err)
	defer binding.Close()

	w := testWorkload()
	w.RecordCount = 50
	w.OperationCount = 100
	w.ReadProportion = 0.5
	w.UpdateProportion = 0.5
	runner := NewRunner(w, func() DB { return binding.NewAdapter() })

	stats, err := runner.Load(context.TODO())
	require.NoError(t, err)
	require.Equal(t, int64(50), stats.Count(OpInsert, adapter.StatusOK))

	stats, err = runner.Run(context.TODO())
	require.NoError(t, err)
	require.Equal(t, int64(100), stats.Count(OpRead, adapter.StatusOK)+stats.Count(OpUpdate, adapter.StatusOK))
	require.Equal(t, 0, binding.Pool().Running())

	ms, err := s.Stats(context.TODO())
	require.NoError(t, err)
	require.Equal(t, int64(50), ms.Files)
}
