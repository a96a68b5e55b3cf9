package master

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metabench/common/kvstore"
	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/master/store"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/util"
)

func newTestMaster(t *testing.T, kvType kvstore.KVType) (*Master, func()) {
	path, err := util.GenTmpPath()
	require.NoError(t, err)
	m, err := NewMaster(context.TODO(), &Config{
		StoreConfig: store.Config{Path: path, KVType: kvType},
	})
	require.NoError(t, err)
	return m, func() {
		m.Close()
		os.RemoveAll(path)
	}
}

func forEachKVType(t *testing.T, f func(t *testing.T, m *Master)) {
	for _, kvType := range []kvstore.KVType{kvstore.MemoryKVType, kvstore.BadgerKVType} {
		t.Run(string(kvType), func(t *testing.T) {
			m, clean := newTestMaster(t, kvType)
			defer clean()
			f(t, m)
		})
	}
}

func TestMaster_CreateDirectory(t *testing.T) {
	forEachKVType(t, func(t *testing.T, m *Master) {
		ctx := context.TODO()
		opts := proto.DefaultCreateDirectoryOptions()

		require.NoError(t, m.CreateDirectory(ctx, proto.DefaultRootDir, opts))
		require.ErrorIs(t, m.CreateDirectory(ctx, proto.DefaultRootDir, opts), apierrors.ErrFileAlreadyExists)
		require.ErrorIs(t, m.CreateDirectory(ctx, proto.RootPath, opts), apierrors.ErrFileAlreadyExists)

		allowExists := opts
		allowExists.AllowExists = true
		require.NoError(t, m.CreateDirectory(ctx, proto.DefaultRootDir, allowExists))

		// parent missing
		require.ErrorIs(t, m.CreateDirectory(ctx, "/a/b", opts), apierrors.ErrFileDoesNotExist)
		recursive := opts
		recursive.Recursive = true
		require.NoError(t, m.CreateDirectory(ctx, "/a/b", recursive))

		info, err := m.GetStatus(ctx, "/a")
		require.NoError(t, err)
		require.True(t, info.Folder)
		require.Equal(t, "a", info.Name)

		info, err = m.GetStatus(ctx, "/a/b")
		require.NoError(t, err)
		require.Equal(t, "/a/b", info.Path)
		require.Equal(t, proto.Mode(0o755), info.Mode)

		stats, err := m.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), stats.Directories)
		require.Equal(t, int64(0), stats.Files)
		require.Equal(t, uint64(3), stats.FileID)
	})
}

func TestMaster_CreateFile(t *testing.T) {
	forEachKVType(t, func(t *testing.T, m *Master) {
		ctx := context.TODO()
		opts := proto.DefaultCreateFileOptions()

		info, err := m.CreateFile(ctx, "/usertable/user1", opts)
		require.NoError(t, err)
		require.False(t, info.Folder)
		require.Equal(t, "user1", info.Name)
		require.Equal(t, opts.BlockSizeBytes, info.BlockSizeBytes)

		_, err = m.CreateFile(ctx, "/usertable/user1", opts)
		require.ErrorIs(t, err, apierrors.ErrFileAlreadyExists)

		_, err = m.CreateFile(ctx, "/usertable/user1/child", opts)
		require.ErrorIs(t, err, apierrors.ErrNotDirectory)

		noRecursive := opts
		noRecursive.Recursive = false
		_, err = m.CreateFile(ctx, "/missing/user1", noRecursive)
		require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)

		got, err := m.GetStatus(ctx, "/usertable/user1")
		require.NoError(t, err)
		require.Equal(t, info.FileId, got.FileId)
		require.Equal(t, info.String(), got.String())

		err = m.CreateDirectory(ctx, "/usertable/user1", proto.CreateDirectoryOptions{AllowExists: true})
		require.ErrorIs(t, err, apierrors.ErrFileAlreadyExists)

		stats, err := m.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), stats.Directories)
		require.Equal(t, int64(1), stats.Files)
	})
}

func TestMaster_Delete(t *testing.T) {
	forEachKVType(t, func(t *testing.T, m *Master) {
		ctx := context.TODO()
		opts := proto.DefaultDeleteOptions()

		require.ErrorIs(t, m.Delete(ctx, "/usertable/user1", opts), apierrors.ErrFileDoesNotExist)
		require.ErrorIs(t, m.Delete(ctx, proto.RootPath, opts), apierrors.ErrInvalidPath)

		_, err := m.CreateFile(ctx, "/usertable/user1", proto.DefaultCreateFileOptions())
		require.NoError(t, err)
		_, err = m.CreateFile(ctx, "/usertable/sub/user2", proto.DefaultCreateFileOptions())
		require.NoError(t, err)

		require.ErrorIs(t, m.Delete(ctx, "/usertable", opts), apierrors.ErrDirectoryNotEmpty)

		require.NoError(t, m.Delete(ctx, "/usertable/user1", opts))
		_, err = m.GetStatus(ctx, "/usertable/user1")
		require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)

		require.NoError(t, m.Delete(ctx, "/usertable", proto.DeleteOptions{Recursive: true}))
		_, err = m.GetStatus(ctx, "/usertable/sub/user2")
		require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)

		stats, err := m.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(0), stats.Directories)
		require.Equal(t, int64(0), stats.Files)
	})
}

func TestMaster_SetAttribute(t *testing.T) {
	forEachKVType(t, func(t *testing.T, m *Master) {
		ctx := context.TODO()

		err := m.SetAttribute(ctx, "/usertable/user1", proto.DefaultSetAttributeOptions())
		require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)

		created, err := m.CreateFile(ctx, "/usertable/user1", proto.DefaultCreateFileOptions())
		require.NoError(t, err)

		require.NoError(t, m.SetAttribute(ctx, "/usertable/user1", proto.DefaultSetAttributeOptions()))
		info, err := m.GetStatus(ctx, "/usertable/user1")
		require.NoError(t, err)
		require.Equal(t, created.String(), info.String())

		pinned, owner := true, "bench"
		require.NoError(t, m.SetAttribute(ctx, "/usertable/user1", proto.SetAttributeOptions{Pinned: &pinned, Owner: &owner}))
		info, err = m.GetStatus(ctx, "/usertable/user1")
		require.NoError(t, err)
		require.True(t, info.Pinned)
		require.Equal(t, "bench", info.Owner)
		require.Equal(t, created.FileId, info.FileId)

		require.NoError(t, m.SetAttribute(ctx, proto.RootPath, proto.DefaultSetAttributeOptions()))
		require.ErrorIs(t, m.SetAttribute(ctx, proto.RootPath, proto.SetAttributeOptions{Pinned: &pinned}), apierrors.ErrInvalidPath)
	})
}

func TestMaster_ListStatus(t *testing.T) {
	forEachKVType(t, func(t *testing.T, m *Master) {
		ctx := context.TODO()
		opts := proto.DefaultCreateFileOptions()

		for _, p := range []string{"/usertable/a", "/usertable/b", "/usertable/sub/c", "/usertable2/d"} {
			_, err := m.CreateFile(ctx, p, opts)
			require.NoError(t, err)
		}

		infos, err := m.ListStatus(ctx, "/usertable", proto.DefaultListStatusOptions())
		require.NoError(t, err)
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name)
		}
		require.Equal(t, []string{"a", "b", "sub"}, names)

		infos, err = m.ListStatus(ctx, proto.RootPath, proto.DefaultListStatusOptions())
		require.NoError(t, err)
		require.Len(t, infos, 2)

		infos, err = m.ListStatus(ctx, "/usertable/a", proto.DefaultListStatusOptions())
		require.NoError(t, err)
		require.Len(t, infos, 1)
		require.Equal(t, "/usertable/a", infos[0].Path)

		_, err = m.ListStatus(ctx, "/nothing", proto.DefaultListStatusOptions())
		require.ErrorIs(t, err, apierrors.ErrFileDoesNotExist)
	})
}

func TestMaster_InvalidPath(t *testing.T) {
	m, clean := newTestMaster(t, kvstore.MemoryKVType)
	defer clean()
	ctx := context.TODO()

	for _, p := range []string{"", "usertable", "/usertable/", "/usertable//a", "/usertable/../a", "/./a"} {
		_, err := m.GetStatus(ctx, p)
		require.ErrorIs(t, err, apierrors.ErrInvalidPath, p)
		_, err = m.CreateFile(ctx, p, proto.DefaultCreateFileOptions())
		require.ErrorIs(t, err, apierrors.ErrInvalidPath, p)
	}

	info, err := m.GetStatus(ctx, proto.RootPath)
	require.NoError(t, err)
	require.True(t, info.Folder)
}

func TestMaster_Reload(t *testing.T) {
	path, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(path)
	ctx := context.TODO()
	cfg := &Config{StoreConfig: store.Config{Path: path, KVType: kvstore.BadgerKVType}}

	m, err := NewMaster(ctx, cfg)
	require.NoError(t, err)
	first, err := m.CreateFile(ctx, "/usertable/user1", proto.DefaultCreateFileOptions())
	require.NoError(t, err)
	m.Close()

	m, err = NewMaster(ctx, cfg)
	require.NoError(t, err)
	defer m.Close()

	info, err := m.GetStatus(ctx, "/usertable/user1")
	require.NoError(t, err)
	require.Equal(t, first.FileId, info.FileId)

	second, err := m.CreateFile(ctx, "/usertable/user2", proto.DefaultCreateFileOptions())
	require.NoError(t, err)
	require.Greater(t, second.FileId, first.FileId)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Files)
	require.Equal(t, int64(1), stats.Directories)
}
