package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/cubefs/cubefs/blobstore/util/log"

	"github.com/cubefs/metabench/adapter"
	"github.com/cubefs/metabench/bench"
	"github.com/cubefs/metabench/common/config"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/util"
)

const (
	phaseLoad = "load"
	phaseRun  = "run"
	phaseLs   = "ls"
)

var (
	propertiesPath = flag.String("P", "bench.properties", "properties file of the master and the workload")
	phase          = flag.String("phase", phaseRun, "phase to execute: load, run or ls")
	logLevel       = flag.String("log_level", "warn", "log level: debug, info, warn or error")
)

var logLevels = map[string]log.Level{
	"debug": log.Ldebug,
	"info":  log.Linfo,
	"warn":  log.Lwarn,
	"error": log.Lerror,
}

type logProperties struct {
	Log util.LogFileConfig `mapstructure:"log"`
}

func main() {
	flag.Parse()

	level, ok := logLevels[strings.ToLower(*logLevel)]
	if !ok {
		log.Fatalf("unknown log level %s", *logLevel)
	}
	log.SetOutputLevel(level)

	defaults := adapter.Defaults()
	for k, v := range bench.WorkloadDefaults() {
		defaults[k] = v
	}
	p, err := config.Load(*propertiesPath, config.DefaultEnvPrefix, defaults)
	if err != nil {
		log.Fatalf("load properties failed: %s", err)
	}

	lp := &logProperties{}
	if err = p.Unmarshal(lp); err != nil {
		log.Fatalf("load log config failed: %s", err)
	}
	logCloser := util.SetupLogOutput(lp.Log)
	defer logCloser.Close()

	cfg, err := adapter.ConfigFrom(p)
	if err != nil {
		log.Fatalf("load adapter config failed: %s", err)
	}
	workload, err := bench.LoadWorkload(p)
	if err != nil {
		log.Fatalf("load workload failed: %s", err)
	}

	binding, err := adapter.NewBinding(cfg)
	if err != nil {
		log.Fatalf("connect master %s failed: %s", cfg.MasterAddresses(), errors.Detail(err))
	}
	defer binding.Close()

	span, ctx := trace.StartSpanFromContext(context.Background(), "metabench")
	span.Infof("master: %s, phase: %s, table: %s, threads: %d",
		cfg.MasterAddresses(), *phase, workload.Table, workload.ThreadCount)

	if err = execute(ctx, *phase, binding, workload); err != nil {
		binding.Close()
		log.Fatalf("phase %s failed: %s", *phase, err)
	}
}

func execute(ctx context.Context, phase string, binding *adapter.Binding, workload *bench.Workload) error {
	runner := bench.NewRunner(workload, func() bench.DB { return binding.NewAdapter() })

	switch phase {
	case phaseLoad:
		stats, err := runner.Load(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, stats.Summary())
	case phaseRun:
		stats, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, stats.Summary())
	case phaseLs:
		return list(ctx, binding, workload.Table)
	default:
		return fmt.Errorf("unknown phase %s", phase)
	}
	return nil
}

func list(ctx context.Context, binding *adapter.Binding, table string) error {
	cli, err := binding.Pool().AcquireMasterClient()
	if err != nil {
		return err
	}
	defer cli.Close()

	infos, err := cli.ListStatus(ctx, proto.PathSeparator+table, proto.DefaultListStatusOptions())
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintln(os.Stdout, info.String())
	}
	fmt.Fprintf(os.Stdout, "%d entries under /%s\n", len(infos), table)
	return nil
}
