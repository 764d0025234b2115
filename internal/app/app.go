package app

import (
	"casino_engine/internal/config"
	"casino_engine/internal/logger"
	"casino_engine/internal/monitoring"
	"context"
	"net/http"

	"go.uber.org/zap"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	logger.Init()
	monitoring.Init()

	err := config.Load(".env")
	if err != nil {
		logger.Log.Warn("no .env file loaded", zap.Error(err))
	}
	s.initServiceProvider()

	ctx := context.Background()
	r := s.ServiceProvider.Router(ctx)

	// Стол краша крутит циклы с момента старта
	if err := s.ServiceProvider.CrashTable().Start(); err != nil {
		return err
	}

	logger.Log.Info("starting server", zap.String("address", s.ServiceProvider.HTTPCfg().Address()))
	err = http.ListenAndServe(s.ServiceProvider.HTTPCfg().Address(), r)
	if err != nil {
		return err
	}
	return err
}
