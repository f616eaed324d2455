package main

import (
	"context"

	"commflock/internal/config"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"
	"commflock/internal/repository/redis"
	"commflock/internal/router"
	"commflock/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := pkg.InitLogger(cfg.LogLevel, cfg.Env == "development")
	pkg.SetJWTSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	if err := mysql.Migrate(mysql.DB); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redis.Close()

	sender := service.LogSender()
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			log.Fatal().Err(err).Msg("kafka connect failed")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	relayCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go service.NewOutboxRelayer(mysql.DB, sender).Run(relayCtx)

	r := router.InitRouter(cfg)
	log.Info().Str("port", cfg.Port).Msg("commflock api listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
