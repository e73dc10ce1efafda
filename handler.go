package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Handler holds shared dependencies for all route handlers: the db pool, the
// logger, the change broadcaster, the two history reconcilers, and the
// leaderboard cache with its single-flight guard.
type Handler struct {
	db            *pgxpool.Pool
	log           *zap.SugaredLogger
	events        *changeBroadcaster
	weights       *historyReconciler
	steps         *historyReconciler
	features      *freshnessCache[[]featureRequest]
	featuresGuard refreshGuard
	openAIBaseURL string // overridden in tests
}

// newHandler wires the dependency graph around a pool and logger.
func newHandler(pool *pgxpool.Pool, log *zap.SugaredLogger) *Handler {
	return &Handler{
		db:            pool,
		log:           log,
		events:        newChangeBroadcaster(log),
		weights:       newHistoryReconciler(&pgHistoryStore{db: pool, table: "weight_log"}, log),
		steps:         newHistoryReconciler(&pgHistoryStore{db: pool, table: "step_log"}, log),
		features:      newFreshnessCache[[]featureRequest](0),
		openAIBaseURL: "https://api.openai.com",
	}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors (struct/column mismatches surface here); a plain
// no-rows result is the caller's concern, not log noise.
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		zap.S().Errorw("query failed", "err", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		zap.S().Errorw("row scan failed", "err", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		zap.S().Errorw("query failed", "err", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		zap.S().Errorw("rows scan failed", "err", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. A pool (not a single conn) because
// serverless Postgres hosts close idle connections after a few minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		zap.S().Fatalw("unable to parse DB URL", "err", err)
	}
	// Simple query protocol avoids "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		zap.S().Fatalw("unable to connect to database", "err", err)
	}
	return pool
}

// healthz reports service and database availability. The db probe is bounded
// so a hung database yields a fast "down", not a stuck request.
func (h *Handler) healthz(c *gin.Context) {
	if !probeDatabase(c.Request.Context(), h.db) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/healthz", h.healthz)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/daily", h.getDailySummary)
	api.POST("/food-log", h.createFoodLogItem)
	api.POST("/food-log/suggest", h.suggestFoodLogItem)
	api.DELETE("/food-log/:id", h.deleteFoodLogItem)
	api.GET("/streak", h.getStreak)
	api.GET("/progress", h.getProgress)
	api.POST("/streak/check", h.checkStreak)
	api.GET("/weight-history", h.getWeightHistory)
	api.POST("/weight-history", h.addWeightEntry)
	api.DELETE("/weight-history", h.clearWeightHistory)
	api.GET("/step-history", h.getStepHistory)
	api.POST("/step-history", h.addStepEntry)
	api.DELETE("/step-history", h.clearStepHistory)
	api.GET("/feature-requests", h.getFeatureRequests)
	api.POST("/feature-requests", h.createFeatureRequest)
	api.POST("/feature-requests/:id/vote", h.voteFeatureRequest)
	api.GET("/events", h.streamEvents)
}
