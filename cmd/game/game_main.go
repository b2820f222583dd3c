package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	gameactor "Civilization/internal/game/actor"
	"Civilization/internal/game/app/port"
	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/infra/persistence/memory"
	mongorepo "Civilization/internal/game/infra/persistence/mongodb"
	sqlrepo "Civilization/internal/game/infra/persistence/mysql"
	"Civilization/internal/game/interfaces"
	"Civilization/internal/game/service"
	"Civilization/internal/shared/gameconfig/terrain"
	"Civilization/internal/shared/infrastructure/db"
	"Civilization/internal/shared/infrastructure/mongo"
	"Civilization/internal/shared/logs"
	"Civilization/internal/shared/metrics"
	"Civilization/internal/shared/serverconfig"
	"Civilization/internal/shared/session"
	transportgrpc "Civilization/internal/shared/transport/grpc"
	transporthttp "Civilization/internal/shared/transport/http"
	"Civilization/internal/shared/transport/http/middleware"
	"Civilization/internal/shared/transport/ws"
	"Civilization/internal/shared/utils"
	"Civilization/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	if err := serverconfig.Load(*cfgPath, onConfigChange); err != nil {
		panic(err)
	}
	conf := serverconfig.Conf
	if err := logs.Init("game", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", conf))

	baseLogger := logx.NewZapLogger(logs.Logger())

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open repository failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gameMetrics := metrics.NewGameCollector()
	if err := gameMetrics.Register(reg); err != nil {
		logs.Fatal("register metrics failed", zap.Error(err))
	}

	preset, err := defaultPreset(conf.Logic.MapData)
	if err != nil {
		logs.Fatal("load map data failed", zap.String("map_data", conf.Logic.MapData), zap.Error(err))
	}
	ids, err := utils.NewSnowflake(utils.NodeID(conf.Logic.ServerID))
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	serverConfig := conf.GameServer
	runtime := gameactor.NewRuntime(repo, gameactor.Options{
		AskTimeout:  time.Duration(serverConfig.AskTimeoutMS) * time.Millisecond,
		FlushEvery:  time.Duration(serverConfig.FlushEveryMS) * time.Millisecond,
		IdleTimeout: time.Duration(serverConfig.IdleTimeoutS) * time.Second,
		Log:         baseLogger,
	})
	difficulty := domain.Difficulty(conf.Logic.DefaultDifficulty)
	gameService := service.NewGameService(runtime, ids, service.Options{
		Difficulty:    &difficulty,
		DefaultPreset: &preset,
		Metrics:       gameMetrics,
		Log:           baseLogger,
	})

	sessMgr := session.NewSessMgr()
	gameModule := interfaces.New(gameService, sessMgr, baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		gameModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	wsServer := ws.NewServer(wsRouter, baseLogger, ws.Options{
		NeedSecret: conf.Security.NeedSecret,
		RateLimit:  conf.Security.RateLimit,
		RateBurst:  conf.Security.RateBurst,
	})
	mounts := map[string]nethttp.Handler{
		"/ws":      wsServer,
		"/ws/*any": wsServer,
	}
	if conf.Metrics.Enabled {
		mounts[conf.Metrics.Path] = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	host := serverConfig.Host
	if host == "" {
		host = "0.0.0.0"
	}
	httpAddr := fmt.Sprintf("%s:%d", host, serverConfig.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, baseLogger, transporthttp.Options{
		Middlewares: []gin.HandlerFunc{middleware.RateLimit(conf.Security.RateLimit, conf.Security.RateBurst)},
		Mounts:      mounts,
	})
	httpServer.Register(gameModule)

	grpcServer := transportgrpc.NewServer(baseLogger)
	gameModule.GrpcRegister(grpcServer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Run(ctx); err != nil {
			errCh <- fmt.Errorf("game http server failed: %w", err)
		}
	}()
	if serverConfig.GRPCPort > 0 {
		grpcAddr := fmt.Sprintf("%s:%d", host, serverConfig.GRPCPort)
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			logs.Fatal("grpc listen failed", zap.String("addr", grpcAddr), zap.Error(err))
		}
		go func() {
			logs.Info("grpc server listening", zap.String("addr", grpcAddr))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("game grpc server start failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
		stop()
	}

	grpcServer.GracefulStop()
	// 最后停 actor：所有对局写回存储
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := runtime.Shutdown(shutdownCtx); err != nil {
		logs.Error("actor runtime shutdown failed", zap.Error(err))
	}
}

// onConfigChange 目前只热更日志级别，其它配置改动需要重启。
func onConfigChange(next serverconfig.Config) {
	logs.SetLevel(next.Log.Level)
	logs.Info("配置已热加载", zap.String("log_level", next.Log.Level))
}

func openRepository(conf serverconfig.Config) (port.GameRepository, func(), error) {
	switch conf.Storage.Driver {
	case "", "memory":
		return memory.NewGameRepository(), func() {}, nil
	case "mongodb":
		store, err := mongo.Open(context.Background(), conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(ctx)
		}
		return mongorepo.NewGameRepository(store.DB), closeFn, nil
	default:
		gormDB, err := db.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlrepo.NewGameRepository(gormDB)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil
	}
}

// defaultPreset map_data 可以是内置预设名，也可以是地图文件路径。
func defaultPreset(mapData string) (terrain.Preset, error) {
	if mapData == "" {
		mapData = terrain.Plains
	}
	if p, ok := terrain.Get(mapData); ok {
		return p, nil
	}
	return terrain.LoadFile(mapData)
}
