package client

import (
	"context"
	"sync/atomic"

	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/proto"
)

// MasterClient is a handle on the shared Context. Its methods translate
// grpc status errors back into namespace errors.
type MasterClient struct {
	ctx    *Context
	master proto.FileSystemMasterClient
	closed int32
}

func (c *MasterClient) CreateDirectory(ctx context.Context, path string, opts proto.CreateDirectoryOptions) error {
	_, err := c.master.CreateDirectory(ctx, &proto.CreateDirectoryRequest{Path: path, Options: opts})
	return apierrors.FromStatus(err)
}

func (c *MasterClient) CreateFile(ctx context.Context, path string, opts proto.CreateFileOptions) (*proto.FileInfo, error) {
	resp, err := c.master.CreateFile(ctx, &proto.CreateFileRequest{Path: path, Options: opts})
	if err != nil {
		return nil, apierrors.FromStatus(err)
	}
	return resp.Info, nil
}

func (c *MasterClient) Delete(ctx context.Context, path string, opts proto.DeleteOptions) error {
	_, err := c.master.Remove(ctx, &proto.RemoveRequest{Path: path, Options: opts})
	return apierrors.FromStatus(err)
}

func (c *MasterClient) GetStatus(ctx context.Context, path string) (*proto.FileInfo, error) {
	resp, err := c.master.GetStatus(ctx, &proto.GetStatusRequest{Path: path})
	if err != nil {
		return nil, apierrors.FromStatus(err)
	}
	return resp.Info, nil
}

func (c *MasterClient) SetAttribute(ctx context.Context, path string, opts proto.SetAttributeOptions) error {
	_, err := c.master.SetAttribute(ctx, &proto.SetAttributeRequest{Path: path, Options: opts})
	return apierrors.FromStatus(err)
}

func (c *MasterClient) ListStatus(ctx context.Context, path string, opts proto.ListStatusOptions) ([]*proto.FileInfo, error) {
	resp, err := c.master.ListStatus(ctx, &proto.ListStatusRequest{Path: path, Options: opts})
	if err != nil {
		return nil, apierrors.FromStatus(err)
	}
	return resp.Infos, nil
}

// Close releases the handle to its Context.
func (c *MasterClient) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return apierrors.ErrClientClosed
	}
	return c.ctx.release()
}
