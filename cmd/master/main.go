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

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/cubefs/cubefs/blobstore/common/config"
	"github.com/cubefs/cubefs/blobstore/common/profile"
	"github.com/cubefs/cubefs/blobstore/common/rpc"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/cubefs/cubefs/blobstore/util/log"
	_ "github.com/cubefs/cubefs/blobstore/util/version"

	"github.com/cubefs/metabench/common/kvstore"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/server"
	"github.com/cubefs/metabench/util"
)

// Config service config
type Config struct {
	server.Config

	HttpBindPort  uint32             `json:"http_bind_port"`
	GrpcBindPort  uint32             `json:"grpc_bind_port"`
	MaxProcessors int                `json:"max_processors"`
	LogLevel      log.Level          `json:"log_level"`
	LogFile       util.LogFileConfig `json:"log_file"`
}

func main() {
	config.Init("f", "", "master.json")

	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		log.Fatal(errors.Detail(err))
	}

	initConfig(cfg)
	logCloser := util.SetupLogOutput(cfg.LogFile)
	defer logCloser.Close()
	registerLogLevel()
	modifyOpenFiles()
	log.SetOutputLevel(cfg.LogLevel)

	startServer, err := server.NewServer(context.Background(), &cfg.Config)
	if err != nil {
		log.Fatalf("start master failed: %s", errors.Detail(err))
	}
	// start http server
	httpServer := server.NewHttpServer(startServer)
	if err = httpServer.Serve(":" + strconv.Itoa(int(cfg.HttpBindPort))); err != nil {
		log.Fatalf("start http server failed: %s", errors.Detail(err))
	}

	// start grpc server
	grpcServer := server.NewRPCServer(startServer)
	if err = grpcServer.Serve(":" + strconv.Itoa(int(cfg.GrpcBindPort))); err != nil {
		log.Fatalf("start grpc server failed: %s", errors.Detail(err))
	}

	localIP, err := util.GetLocalIp()
	if err != nil {
		log.Warnf("get local ip failed: %s", err)
	}
	log.Infof("master started on %s, grpc port: %d, http port: %d", localIP, cfg.GrpcBindPort, cfg.HttpBindPort)

	// wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	sig := <-ch
	log.Infof("receive signal %s, stopping", sig)

	// stop all server
	grpcServer.Stop()
	httpServer.Stop()
	startServer.Close()
}

func registerLogLevel() {
	logLevelPath, logLevelHandler := log.ChangeDefaultLevelHandler()
	profile.HandleFunc(http.MethodPost, logLevelPath, func(c *rpc.Context) {
		logLevelHandler.ServeHTTP(c.Writer, c.Request)
	})
	profile.HandleFunc(http.MethodGet, logLevelPath, func(c *rpc.Context) {
		logLevelHandler.ServeHTTP(c.Writer, c.Request)
	})
}

func modifyOpenFiles() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Fatalf("getting rlimit failed: %s", err)
	}
	log.Info("system limit: ", rLimit)

	if rLimit.Cur >= 102400 && rLimit.Max >= 102400 {
		return
	}

	rLimit.Cur = 1024000
	rLimit.Max = 1024000

	if err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warnf("setting rlimit failed: %s", err)
		return
	}
	if err = syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Fatalf("getting rlimit failed: %s", err)
	}
	log.Info("system limit: ", rLimit)
}

func initConfig(cfg *Config) {
	if cfg.GrpcBindPort == 0 {
		cfg.GrpcBindPort = proto.DefaultMasterPort
	}
	if cfg.HttpBindPort == 0 {
		cfg.HttpBindPort = cfg.GrpcBindPort + 1
	}
	if cfg.StoreConfig.KVType == "" {
		cfg.StoreConfig.KVType = kvstore.BadgerKVType
	}
	if cfg.StoreConfig.Path == "" {
		cfg.StoreConfig.Path = "./run/store"
	}
	if cfg.MaxProcessors > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcessors)
	}
}
