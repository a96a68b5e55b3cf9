// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package proto

import (
	"context"

	"google.golang.org/grpc"
)

const (
	FileSystemMasterServiceName = "metabench.FileSystemMaster"

	FileSystemMaster_CreateDirectory_FullMethodName = "/" + FileSystemMasterServiceName + "/CreateDirectory"
	FileSystemMaster_CreateFile_FullMethodName      = "/" + FileSystemMasterServiceName + "/CreateFile"
	FileSystemMaster_Remove_FullMethodName          = "/" + FileSystemMasterServiceName + "/Remove"
	FileSystemMaster_GetStatus_FullMethodName       = "/" + FileSystemMasterServiceName + "/GetStatus"
	FileSystemMaster_SetAttribute_FullMethodName    = "/" + FileSystemMasterServiceName + "/SetAttribute"
	FileSystemMaster_ListStatus_FullMethodName      = "/" + FileSystemMasterServiceName + "/ListStatus"
)

// FileSystemMasterClient is the client API for the metadata master service.
type FileSystemMasterClient interface {
	CreateDirectory(ctx context.Context, in *CreateDirectoryRequest, opts ...grpc.CallOption) (*CreateDirectoryResponse, error)
	CreateFile(ctx context.Context, in *CreateFileRequest, opts ...grpc.CallOption) (*CreateFileResponse, error)
	Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*RemoveResponse, error)
	GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error)
	SetAttribute(ctx context.Context, in *SetAttributeRequest, opts ...grpc.CallOption) (*SetAttributeResponse, error)
	ListStatus(ctx context.Context, in *ListStatusRequest, opts ...grpc.CallOption) (*ListStatusResponse, error)
}

type fileSystemMasterClient struct {
	cc grpc.ClientConnInterface
}

func NewFileSystemMasterClient(cc grpc.ClientConnInterface) FileSystemMasterClient {
	return &fileSystemMasterClient{cc}
}

func (c *fileSystemMasterClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(CodecName))
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *fileSystemMasterClient) CreateDirectory(ctx context.Context, in *CreateDirectoryRequest, opts ...grpc.CallOption) (*CreateDirectoryResponse, error) {
	out := new(CreateDirectoryResponse)
	if err := c.invoke(ctx, FileSystemMaster_CreateDirectory_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileSystemMasterClient) CreateFile(ctx context.Context, in *CreateFileRequest, opts ...grpc.CallOption) (*CreateFileResponse, error) {
	out := new(CreateFileResponse)
	if err := c.invoke(ctx, FileSystemMaster_CreateFile_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileSystemMasterClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*RemoveResponse, error) {
	out := new(RemoveResponse)
	if err := c.invoke(ctx, FileSystemMaster_Remove_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileSystemMasterClient) GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error) {
	out := new(GetStatusResponse)
	if err := c.invoke(ctx, FileSystemMaster_GetStatus_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileSystemMasterClient) SetAttribute(ctx context.Context, in *SetAttributeRequest, opts ...grpc.CallOption) (*SetAttributeResponse, error) {
	out := new(SetAttributeResponse)
	if err := c.invoke(ctx, FileSystemMaster_SetAttribute_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileSystemMasterClient) ListStatus(ctx context.Context, in *ListStatusRequest, opts ...grpc.CallOption) (*ListStatusResponse, error) {
	out := new(ListStatusResponse)
	if err := c.invoke(ctx, FileSystemMaster_ListStatus_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// FileSystemMasterServer is the server API for the metadata master service.
type FileSystemMasterServer interface {
	CreateDirectory(context.Context, *CreateDirectoryRequest) (*CreateDirectoryResponse, error)
	CreateFile(context.Context, *CreateFileRequest) (*CreateFileResponse, error)
	Remove(context.Context, *RemoveRequest) (*RemoveResponse, error)
	GetStatus(context.Context, *GetStatusRequest) (*GetStatusResponse, error)
	SetAttribute(context.Context, *SetAttributeRequest) (*SetAttributeResponse, error)
	ListStatus(context.Context, *ListStatusRequest) (*ListStatusResponse, error)
}

func RegisterFileSystemMasterServer(s grpc.ServiceRegistrar, srv FileSystemMasterServer) {
	s.RegisterService(&FileSystemMaster_ServiceDesc, srv)
}

func _FileSystemMaster_CreateDirectory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateDirectoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).CreateDirectory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_CreateDirectory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).CreateDirectory(ctx, req.(*CreateDirectoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileSystemMaster_CreateFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateFileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).CreateFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_CreateFile_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).CreateFile(ctx, req.(*CreateFileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileSystemMaster_Remove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RemoveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).Remove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_Remove_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).Remove(ctx, req.(*RemoveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileSystemMaster_GetStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_GetStatus_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).GetStatus(ctx, req.(*GetStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileSystemMaster_SetAttribute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetAttributeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).SetAttribute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_SetAttribute_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).SetAttribute(ctx, req.(*SetAttributeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileSystemMaster_ListStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileSystemMasterServer).ListStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FileSystemMaster_ListStatus_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FileSystemMasterServer).ListStatus(ctx, req.(*ListStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FileSystemMaster_ServiceDesc is the grpc.ServiceDesc for the metadata master service.
var FileSystemMaster_ServiceDesc = grpc.ServiceDesc{
	ServiceName: FileSystemMasterServiceName,
	HandlerType: (*FileSystemMasterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateDirectory", Handler: _FileSystemMaster_CreateDirectory_Handler},
		{MethodName: "CreateFile", Handler: _FileSystemMaster_CreateFile_Handler},
		{MethodName: "Remove", Handler: _FileSystemMaster_Remove_Handler},
		{MethodName: "GetStatus", Handler: _FileSystemMaster_GetStatus_Handler},
		{MethodName: "SetAttribute", Handler: _FileSystemMaster_SetAttribute_Handler},
		{MethodName: "ListStatus", Handler: _FileSystemMaster_ListStatus_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "master.proto",
}
