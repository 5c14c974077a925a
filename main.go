package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"daily/config"
	"daily/database"
	"daily/logging"
	"daily/router"
	"daily/service"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// @title 每日记录 API
// @version 1.0
// @description 个人生活记录服务：账单、待办、笔记、饮食、朋友、日记与外貌记录的增删改查与统计
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	envFile     string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 3000 或 :3000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.StringVar(&envFile, "env", ".env", "环境变量文件，不存在时忽略")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("每日记录 v" + version)
		return
	}

	if err := run(); err != nil {
		slog.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env 中的变量不覆盖已存在的环境变量
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("读取 %s 失败: %w", envFile, err)
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖 + 环境变量）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		cfg.Server.Port = strings.TrimPrefix(port, ":")
	}

	log := logging.New(cfg.Log, cfg.Server.Mode)
	slog.SetDefault(log)
	log.Info("配置已加载", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Init(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	uploads, err := service.NewUploadService(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("对象存储初始化失败: %w", err)
	}

	r := router.SetupRouter(router.Deps{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Storage: uploads,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("每日记录服务已启动",
			"addr", srv.Addr,
			"swagger", "http://localhost:"+cfg.Server.Port+"/swagger/index.html",
			"api", "http://localhost:"+cfg.Server.Port+"/api",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("正在关闭服务")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
