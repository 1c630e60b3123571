package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/palemoky/kazhutha/internal/config"
	"github.com/palemoky/kazhutha/internal/logger"
	"github.com/palemoky/kazhutha/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Server.LogFile); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Println("正在关闭服务器...")
		srv.GracefulShutdown(cfg.Game.ShutdownTimeoutDuration())
	}()

	log.Println("🎮 Kazhutha Kali 服务器启动中...")
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
	// Start 在 HTTP 服务关闭后返回，等待回收完成
	<-done
}
