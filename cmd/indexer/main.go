package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
	"gopkg.in/yaml.v3"

	"trade-indexer-near/internal/config"
	"trade-indexer-near/internal/logic/stream"
	"trade-indexer-near/internal/logic/tradedetect"
	"trade-indexer-near/internal/svc"
	"trade-indexer-near/pkg/logger"
)

var configFile = flag.String("f", "etc/indexer.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.IndexerConfig
	conf.MustLoad(*configFile, &c)

	logger.Init(c.LogConf.ToLogOption())
	defer logger.Sync()

	if dump, err := yaml.Marshal(&c); err == nil {
		logger.Debugf("effective config:\n%s", dump)
	}

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	router := tradedetect.NewRouter(c.NetworkID(), c.RefPoolCeiling)
	provider := stream.NewFastNearProvider(c.FastNear)
	blockService := stream.NewBlockService(
		provider,
		router,
		serviceContext.Sink,
		serviceContext.Checkpoint,
		c.FastNear,
		c.StartHeight,
	)

	sg := zerosvc.NewServiceGroup()
	sg.Add(blockService)

	logx.Infof("Starting trade indexer (network=%s)", c.Network)
	sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("Shutting down services...")
	sg.Stop()
}
