package main

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional in deployed environments where config comes from the
	// process environment directly.
	envLoaded := godotenv.Load() == nil

	log, err := newLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if !envLoaded {
		log.Infow("no .env file, using process environment")
	}

	pool := getDBPool()
	defer pool.Close()
	if !probeDatabase(context.Background(), pool) {
		log.Fatalw("database did not answer within the probe timeout")
	}
	log.Infow("db pool ready")

	h := newHandler(pool, log)

	// Fires at every local midnight: tells connected clients the day rolled
	// over so they re-pull summaries and re-run their streak checks.
	rollover := newMidnightScheduler(func() {
		log.Infow("day rollover")
		h.events.Broadcast("day-rollover")
	})
	rollover.Start()
	defer rollover.Stop()

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Infow("starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}
