package master

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"

	"github.com/cubefs/metabench/common/kvstore"
	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/proto"
)

const rootPath = proto.RootPath

func (m *Master) CreateDirectory(ctx context.Context, p string, opts proto.CreateDirectoryOptions) error {
	span := trace.SpanFromContextSafe(ctx)
	if err := checkPath(p); err != nil {
		return err
	}
	if p == rootPath {
		if opts.AllowExists {
			return nil
		}
		return apierrors.ErrFileAlreadyExists
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	existing, err := m.getLocked(ctx, p)
	if err != nil && err != apierrors.ErrFileDoesNotExist {
		return err
	}
	if existing != nil {
		if opts.AllowExists && existing.Folder {
			return nil
		}
		return apierrors.ErrFileAlreadyExists
	}

	batch := m.storage.newBatch()
	nextID := m.currentFileID
	created, err := m.prepareParents(ctx, batch, p, opts.Recursive, &nextID)
	if err != nil {
		batch.Close()
		return err
	}

	nextID++
	info := newEntry(p, nextID, true, opts.Mode, opts.Ttl)
	if err = batch.putEntry(info); err != nil {
		batch.Close()
		return err
	}
	batch.putFileID(nextID)
	if err = m.storage.write(ctx, batch); err != nil {
		span.Errorf("create directory %s failed: %s", p, err)
		return err
	}

	m.currentFileID = nextID
	m.directories += int64(created) + 1
	span.Debugf("create directory %s, id: %d", p, info.FileId)
	return nil
}

func (m *Master) CreateFile(ctx context.Context, p string, opts proto.CreateFileOptions) (*proto.FileInfo, error) {
	span := trace.SpanFromContextSafe(ctx)
	if err := checkPath(p); err != nil {
		return nil, err
	}
	if p == rootPath {
		return nil, apierrors.ErrFileAlreadyExists
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	existing, err := m.getLocked(ctx, p)
	if err != nil && err != apierrors.ErrFileDoesNotExist {
		return nil, err
	}
	if existing != nil {
		return nil, apierrors.ErrFileAlreadyExists
	}

	batch := m.storage.newBatch()
	nextID := m.currentFileID
	created, err := m.prepareParents(ctx, batch, p, opts.Recursive, &nextID)
	if err != nil {
		batch.Close()
		return nil, err
	}

	nextID++
	info := newEntry(p, nextID, false, opts.Mode, opts.Ttl)
	info.BlockSizeBytes = opts.BlockSizeBytes
	if err = batch.putEntry(info); err != nil {
		batch.Close()
		return nil, err
	}
	batch.putFileID(nextID)
	if err = m.storage.write(ctx, batch); err != nil {
		span.Errorf("create file %s failed: %s", p, err)
		return nil, err
	}

	m.currentFileID = nextID
	m.directories += int64(created)
	m.files++
	span.Debugf("create file %s, id: %d", p, info.FileId)
	return info, nil
}

func (m *Master) Delete(ctx context.Context, p string, opts proto.DeleteOptions) error {
	span := trace.SpanFromContextSafe(ctx)
	if err := checkPath(p); err != nil {
		return err
	}
	if p == rootPath {
		return apierrors.ErrInvalidPath
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	info, err := m.getLocked(ctx, p)
	if err != nil {
		return err
	}

	batch := m.storage.newBatch()
	var files, dirs int64
	if info.Folder {
		dirs++
		children, err := m.storage.listEntries(ctx, childPrefix(p))
		if err != nil {
			batch.Close()
			return err
		}
		if len(children) > 0 && !opts.Recursive {
			batch.Close()
			return apierrors.ErrDirectoryNotEmpty
		}
		for _, child := range children {
			if child.Folder {
				dirs++
			} else {
				files++
			}
			batch.deleteEntry(child.Path)
		}
	} else {
		files++
	}
	batch.deleteEntry(p)

	if err = m.storage.write(ctx, batch); err != nil {
		span.Errorf("delete %s failed: %s", p, err)
		return err
	}
	m.files -= files
	m.directories -= dirs
	span.Debugf("delete %s, files: %d, directories: %d", p, files, dirs)
	return nil
}

func (m *Master) GetStatus(ctx context.Context, p string) (*proto.FileInfo, error) {
	if err := checkPath(p); err != nil {
		return nil, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.getLocked(ctx, p)
}

func (m *Master) SetAttribute(ctx context.Context, p string, opts proto.SetAttributeOptions) error {
	if err := checkPath(p); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	info, err := m.getLocked(ctx, p)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return nil
	}
	if p == rootPath {
		return apierrors.ErrInvalidPath
	}

	if opts.Pinned != nil {
		info.Pinned = *opts.Pinned
	}
	if opts.Persisted != nil {
		info.Persisted = *opts.Persisted
	}
	if opts.Ttl != nil {
		info.Ttl = *opts.Ttl
	}
	if opts.TtlAction != nil {
		info.TtlAction = *opts.TtlAction
	}
	if opts.Mode != nil {
		info.Mode = *opts.Mode
	}
	if opts.Owner != nil {
		info.Owner = *opts.Owner
	}
	if opts.Group != nil {
		info.Group = *opts.Group
	}
	info.LastModificationTimeMs = time.Now().UnixMilli()

	batch := m.storage.newBatch()
	if err = batch.putEntry(info); err != nil {
		batch.Close()
		return err
	}
	return m.storage.write(ctx, batch)
}

// ListStatus returns the direct children of a directory, or the entry
// itself when p names a file.
func (m *Master) ListStatus(ctx context.Context, p string, _ proto.ListStatusOptions) ([]*proto.FileInfo, error) {
	if err := checkPath(p); err != nil {
		return nil, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	info, err := m.getLocked(ctx, p)
	if err != nil {
		return nil, err
	}
	if !info.Folder {
		return []*proto.FileInfo{info}, nil
	}

	prefix := childPrefix(p)
	entries, err := m.storage.listEntries(ctx, prefix)
	if err != nil {
		return nil, err
	}
	ret := make([]*proto.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry.Path[len(prefix):], proto.PathSeparator) {
			continue
		}
		ret = append(ret, entry)
	}
	return ret, nil
}

func (m *Master) getLocked(ctx context.Context, p string) (*proto.FileInfo, error) {
	if p == rootPath {
		return rootEntry(), nil
	}
	info, err := m.storage.getEntry(ctx, p)
	if err == kvstore.ErrNotFound {
		return nil, apierrors.ErrFileDoesNotExist
	}
	return info, err
}

// prepareParents checks the ancestors of p and, when recursive, adds the
// missing ones to batch. It returns the number of directories added.
func (m *Master) prepareParents(ctx context.Context, batch *entryBatch, p string, recursive bool, nextID *uint64) (int, error) {
	parent := path.Dir(p)
	info, err := m.getLocked(ctx, parent)
	if err == nil {
		if !info.Folder {
			return 0, apierrors.ErrNotDirectory
		}
		return 0, nil
	}
	if err != apierrors.ErrFileDoesNotExist {
		return 0, err
	}
	if !recursive {
		return 0, err
	}

	created, err := m.prepareParents(ctx, batch, parent, recursive, nextID)
	if err != nil {
		return 0, err
	}
	*nextID++
	if err = batch.putEntry(newEntry(parent, *nextID, true, proto.DefaultCreateDirectoryOptions().Mode, proto.NoTtl)); err != nil {
		return 0, err
	}
	return created + 1, nil
}

func newEntry(p string, id uint64, folder bool, mode proto.Mode, ttl int64) *proto.FileInfo {
	now := time.Now().UnixMilli()
	return &proto.FileInfo{
		FileId:                 proto.FileID(id),
		Name:                   path.Base(p),
		Path:                   p,
		CreationTimeMs:         now,
		LastModificationTimeMs: now,
		Completed:              !folder,
		Folder:                 folder,
		Mode:                   mode,
		Ttl:                    ttl,
		TtlAction:              proto.TtlActionDelete,
	}
}

func rootEntry() *proto.FileInfo {
	return &proto.FileInfo{
		Name:      "",
		Path:      rootPath,
		Folder:    true,
		Mode:      proto.DefaultCreateDirectoryOptions().Mode,
		Ttl:       proto.NoTtl,
		TtlAction: proto.TtlActionDelete,
	}
}

func childPrefix(p string) string {
	if p == rootPath {
		return rootPath
	}
	return p + proto.PathSeparator
}

func checkPath(p string) error {
	if p == "" || !strings.HasPrefix(p, proto.PathSeparator) || path.Clean(p) != p {
		return apierrors.ErrInvalidPath
	}
	return nil
}
