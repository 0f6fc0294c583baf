package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"careerflow-api/internal/app"
	"careerflow-api/internal/core/config"
	"careerflow-api/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	l, cleanup := app.NewLogger(cfg)
	defer cleanup()

	// DB 连接（失败直接 Fatal）
	db, err := app.OpenDB(cfg, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}

	a := app.New(context.Background(), cfg, l, db)
	defer a.Close()

	// 管理员账号只在这里产生
	if b := cfg.AdminBootstrap; b.Email != "" {
		acct, created, err := a.Accounts.EnsureAdmin(context.Background(), b.Username, b.Email, b.Password)
		if err != nil {
			l.Fatal("admin bootstrap", zap.Error(err))
		}
		l.Info("admin bootstrap", zap.String("id", acct.ID), zap.Bool("created", created))
	}

	// HTTP Server
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, a.AdminEngine(), 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	l.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	// 异步启动；失败立即标红退出
	go func() {
		if err := server.StartHTTP(srv, l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	// 关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info("admin api stopped gracefully")
}
