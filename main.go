package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"financeirox/config"
	"financeirox/database"
	"financeirox/jobs"
	"financeirox/logger"
	"financeirox/middleware"
	"financeirox/router"
	"financeirox/service"
)

// @title FinanceiroX API
// @version 1.0
// @description Controle financeiro para trabalhadores de aplicativo no Japão
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "arquivo de configuração externo (opcional)")
	flag.StringVar(&configFile, "c", "", "arquivo de configuração externo (atalho)")
	flag.StringVar(&port, "port", "", "porta de escuta, ex.: 8080 ou :8080")
	flag.StringVar(&port, "p", "", "porta de escuta (atalho)")
	flag.BoolVar(&showVersion, "version", false, "mostra a versão")
	flag.BoolVar(&showVersion, "v", false, "mostra a versão (atalho)")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("FinanceiroX v%s\n", version)
		return
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	logger.Init(cfg.Log)
	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		logger.Log.Fatalf("falha ao inicializar o banco: %v", err)
	}
	defer database.Close()

	middleware.InitJWT(cfg)
	middleware.InitRedisRateLimiter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer middleware.CloseRedis()

	scheduler, err := jobs.Start(cfg, database.DB, service.NewEmailService(&cfg.Email))
	if err != nil {
		logger.Log.Fatalf("falha ao iniciar tarefas agendadas: %v", err)
	}
	defer jobs.Stop(scheduler)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("FinanceiroX ouvindo em %s (swagger em /swagger/index.html)", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("falha ao iniciar o servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("encerrando o servidor...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("encerramento forçado")
	}
}
