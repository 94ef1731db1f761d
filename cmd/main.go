package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/petmap/pet-marketplace/internal/config"
	"github.com/petmap/pet-marketplace/internal/db"
	"github.com/petmap/pet-marketplace/internal/handlers"
	"github.com/petmap/pet-marketplace/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	client, err := db.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	businesses := &db.MongoBusinessCollection{Collection: database.Collection(db.BusinessesCollection)}
	services := &db.MongoServiceCollection{Collection: database.Collection(db.ServicesCollection)}
	bookings := &db.MongoBookingCollection{Collection: database.Collection(db.BookingsCollection)}

	validator := middleware.NewTokenValidator(cfg.Auth.JWTSecret)
	router := handlers.NewRouter(businesses, services, bookings, validator)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	log.Info("Server exited")
}
