package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/sharemart/sharing-service/gateway/config"
	"github.com/sharemart/sharing-service/gateway/internal/handler"
	"github.com/sharemart/sharing-service/gateway/internal/server"
	"github.com/sharemart/sharing-service/pkg/kafka"
	"github.com/sharemart/sharing-service/pkg/logger"
)

func Run(cfg config.Config) { //nolint:gocritic
	log := logger.NewLogger(cfg.Log, "gateway")

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled {
		var err error
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.DPanic("kafka", zap.Error(err))
		}
	}
	h := handler.New(log, cfg, producer)

	srv := server.NewServer(cfg.Server, h.NewRouter())
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

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		_ = producer.Close()
	}
	log.Info("Graceful shutdown finished")
}
