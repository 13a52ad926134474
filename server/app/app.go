package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/pkg/logger"
	"github.com/sharemart/sharing-service/pkg/metrics"
	"github.com/sharemart/sharing-service/pkg/postgres"
	"github.com/sharemart/sharing-service/server/config"
	"github.com/sharemart/sharing-service/server/internal/handler"
	"github.com/sharemart/sharing-service/server/internal/repository"
	"github.com/sharemart/sharing-service/server/internal/server"
	"github.com/sharemart/sharing-service/server/internal/service"
	"github.com/sharemart/sharing-service/server/migrations"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "server")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}

	userRepo := repository.NewUserRepository(db, log)
	itemRepo := repository.NewItemRepository(db, log)
	bookingRepo := repository.NewBookingRepository(db, log)
	commentRepo := repository.NewCommentRepository(db, log)
	requestRepo := repository.NewItemRequestRepository(db, log)

	userSvc := service.NewUserService(userRepo, log)
	itemSvc := service.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, log)
	bookingSvc := service.NewBookingService(bookingRepo, userRepo, itemRepo, requestRepo, log)
	requestSvc := service.NewItemRequestService(requestRepo, userRepo, log)

	h := handler.New(userSvc, itemSvc, bookingSvc, requestSvc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter(metrics.New("sharing_server")))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
