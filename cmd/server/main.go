// Command server runs the certificate verification service. main is the
// composition root: every dependency is constructed here and injected
// explicitly; no package owns a process-global client handle.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	certtypehandler "certverify/internal/certtype/handler"
	certtypeservice "certverify/internal/certtype/service"
	certtypestore "certverify/internal/certtype/store"
	identitycache "certverify/internal/identity/cache"
	"certverify/internal/identity/directory"
	identityhandler "certverify/internal/identity/handler"
	identitymetrics "certverify/internal/identity/metrics"
	"certverify/internal/identity/resolver"
	jwttoken "certverify/internal/jwt_token"
	"certverify/internal/platform/config"
	"certverify/internal/platform/database"
	"certverify/internal/platform/httpserver"
	"certverify/internal/platform/kafka/producer"
	"certverify/internal/platform/logger"
	platformredis "certverify/internal/platform/redis"
	templatehandler "certverify/internal/template/handler"
	templateservice "certverify/internal/template/service"
	templatestore "certverify/internal/template/store"
	httptransport "certverify/internal/transport/http"
	verificationcache "certverify/internal/verification/cache"
	verificationhandler "certverify/internal/verification/handler"
	verificationmetrics "certverify/internal/verification/metrics"
	verificationservice "certverify/internal/verification/service"
	verificationstore "certverify/internal/verification/store"
	"certverify/internal/verification/tracer"
	verifylogrecorder "certverify/internal/verifylog/recorder"
	verifylogstore "certverify/internal/verifylog/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if db == nil {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient == nil {
		log.Error("REDIS_URL is required")
		os.Exit(1)
	}
	defer redisClient.Close()

	// Verification event publishing is optional: no brokers, no producer.
	var publisher verifylogrecorder.EventPublisher
	var kafkaProducer *producer.Producer
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err = producer.New(producer.Config{Brokers: cfg.Kafka.Brokers}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "certverify", "certverify")

	profileResolver := resolver.New(
		identitycache.NewRedisCache(redisClient.Client),
		directory.NewKeycloakClient(cfg.Directory, log),
		log,
		identitymetrics.New(),
	)

	verifyService := verificationservice.New(
		verificationcache.NewRedisCache(redisClient.Client),
		verificationstore.NewPostgresStore(db.DB()),
		profileResolver,
		log,
		verificationmetrics.New(),
		tracer.NewOTel(),
	)

	logRecorder := verifylogrecorder.New(
		verifylogstore.NewPostgresStore(db.DB()),
		publisher,
		cfg.Kafka.Topic,
		log,
	)
	defer logRecorder.Close()

	verifyHandler := verificationhandler.New(verifyService, logRecorder, log)
	meHandler := identityhandler.New(profileResolver, log)
	templateHandler := templatehandler.New(
		templateservice.New(templatestore.NewPostgresStore(db.DB()), log), log)
	certTypeHandler := certtypehandler.New(
		certtypeservice.New(certtypestore.NewPostgresStore(db.DB()), log), log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		AdminTokenHash: cfg.AdminTokenHash,
		PublicRoutes: []func(chi.Router){
			verifyHandler.RegisterPublic,
		},
		AuthenticatedRoutes: []func(chi.Router){
			verifyHandler.RegisterAuthenticated,
			meHandler.Register,
		},
		AdminRoutes: []func(chi.Router){
			templateHandler.Register,
			certTypeHandler.Register,
		},
		HealthChecks: map[string]httptransport.HealthChecker{
			"database": db,
			"redis":    redisClient,
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
