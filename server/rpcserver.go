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

package server

import (
	"context"
	"net"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/metrics"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/util/limiter"
)

type RPCServer struct {
	*Server

	grpcServer *grpc.Server
	listener   net.Listener
	inflight   limiter.CountLimit
}

func NewRPCServer(server *Server) *RPCServer {
	rs := &RPCServer{
		Server:   server,
		inflight: limiter.NewCountLimit(server.cfg.MaxInflight),
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		rs.unaryInterceptorWithTracer,
		metrics.GRPCMetrics.UnaryServerInterceptor(),
		rs.unaryInterceptorWithAuth,
		rs.unaryInterceptorWithLimit,
		rs.unaryInterceptorWithStatus,
	))
	proto.RegisterFileSystemMasterServer(s, rs)
	metrics.GRPCMetrics.InitializeMetrics(s)
	rs.grpcServer = s
	return rs
}

// Serve listens on addr and serves in background.
func (r *RPCServer) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Info(err, "listen failed", addr)
	}
	r.listener = ln
	go func() {
		if err := r.grpcServer.Serve(ln); err != nil {
			log.Errorf("grpc server exits: %s", err)
		}
	}()

	log.Info("grpc server is running at:", ln.Addr().String())
	return nil
}

func (r *RPCServer) Addr() string {
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr().String()
}

func (r *RPCServer) Stop() {
	r.grpcServer.GracefulStop()
}

// Master API

func (r *RPCServer) CreateDirectory(ctx context.Context, req *proto.CreateDirectoryRequest) (*proto.CreateDirectoryResponse, error) {
	span := trace.SpanFromContextSafe(ctx)
	err := r.master.CreateDirectory(ctx, req.Path, req.Options)
	if err != nil {
		span.Debugf("create directory %s failed: %s", req.Path, errors.Detail(err))
		return nil, err
	}
	return &proto.CreateDirectoryResponse{}, nil
}

func (r *RPCServer) CreateFile(ctx context.Context, req *proto.CreateFileRequest) (*proto.CreateFileResponse, error) {
	span := trace.SpanFromContextSafe(ctx)
	info, err := r.master.CreateFile(ctx, req.Path, req.Options)
	if err != nil {
		span.Debugf("create file %s failed: %s", req.Path, errors.Detail(err))
		return nil, err
	}
	return &proto.CreateFileResponse{Info: info}, nil
}

func (r *RPCServer) Remove(ctx context.Context, req *proto.RemoveRequest) (*proto.RemoveResponse, error) {
	span := trace.SpanFromContextSafe(ctx)
	err := r.master.Delete(ctx, req.Path, req.Options)
	if err != nil {
		span.Debugf("delete %s failed: %s", req.Path, errors.Detail(err))
		return nil, err
	}
	return &proto.RemoveResponse{}, nil
}

func (r *RPCServer) GetStatus(ctx context.Context, req *proto.GetStatusRequest) (*proto.GetStatusResponse, error) {
	info, err := r.master.GetStatus(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	return &proto.GetStatusResponse{Info: info}, nil
}

func (r *RPCServer) SetAttribute(ctx context.Context, req *proto.SetAttributeRequest) (*proto.SetAttributeResponse, error) {
	if err := r.master.SetAttribute(ctx, req.Path, req.Options); err != nil {
		return nil, err
	}
	return &proto.SetAttributeResponse{}, nil
}

func (r *RPCServer) ListStatus(ctx context.Context, req *proto.ListStatusRequest) (*proto.ListStatusResponse, error) {
	infos, err := r.master.ListStatus(ctx, req.Path, req.Options)
	if err != nil {
		return nil, err
	}
	return &proto.ListStatusResponse{Infos: infos}, nil
}

// util function

func (r *RPCServer) unaryInterceptorWithTracer(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if reqId := md.Get(proto.ReqIdKey); len(reqId) > 0 && reqId[0] != "" {
		_, ctx = trace.StartSpanFromContextWithTraceID(ctx, info.FullMethod, reqId[0])
	} else {
		_, ctx = trace.StartSpanFromContext(ctx, info.FullMethod)
	}

	return handler(ctx, req)
}

func (r *RPCServer) unaryInterceptorWithAuth(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if authType := md.Get(proto.AuthTypeKey); len(authType) == 0 || authType[0] != proto.AuthTypeNoSASL {
		trace.SpanFromContextSafe(ctx).Warnf("reject %s with auth type %v", info.FullMethod, authType)
		return nil, apierrors.ToStatus(apierrors.ErrUnsupportedAuth)
	}
	return handler(ctx, req)
}

func (r *RPCServer) unaryInterceptorWithLimit(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	if err = r.inflight.Acquire(); err != nil {
		return nil, status.Error(codes.ResourceExhausted, err.Error())
	}
	defer r.inflight.Release()
	return handler(ctx, req)
}

func (r *RPCServer) unaryInterceptorWithStatus(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	resp, err = handler(ctx, req)
	if err != nil {
		return nil, apierrors.ToStatus(err)
	}
	return resp, nil
}
