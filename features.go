package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// featureCacheKey is the single cache key for the leaderboard list.
const featureCacheKey = "leaderboard"

// getFeatureRequests returns the community feature-request leaderboard,
// ordered by votes. The list is served from the freshness cache when a fetch
// within the TTL already happened; when the database is unreachable the last
// known (stale) list is served instead of an error — this is a non-critical
// display surface and stale beats empty.
// GET /api/feature-requests.
func (h *Handler) getFeatureRequests(c *gin.Context) {
	if list, ok := h.features.Get(featureCacheKey); ok {
		c.JSON(http.StatusOK, list)
		return
	}

	var list []featureRequest
	var fetchErr error
	ran := h.featuresGuard.Do(func() {
		list, fetchErr = queryMany[featureRequest](h.db, c,
			`SELECT fr.id, fr.title, fr.description, fr.created_at,
			        COUNT(v.user_id)::int AS votes
			 FROM feature_requests fr
			 LEFT JOIN feature_request_votes v ON v.request_id = fr.id
			 GROUP BY fr.id
			 ORDER BY votes DESC, fr.created_at ASC`, pgx.NamedArgs{})
		if fetchErr == nil {
			if list == nil {
				list = []featureRequest{}
			}
			h.features.Set(featureCacheKey, list)
		}
	})

	if !ran || fetchErr != nil {
		// Another refresh is in flight, or the fetch failed — fall back to
		// whatever was cached before, however old.
		if stale, ok := h.features.GetStale(featureCacheKey); ok {
			c.JSON(http.StatusOK, stale)
			return
		}
		if fetchErr != nil {
			apiError(c, http.StatusInternalServerError, "failed to fetch feature requests")
		} else {
			apiError(c, http.StatusServiceUnavailable, "leaderboard refresh in progress")
		}
		return
	}

	c.JSON(http.StatusOK, list)
}

// createFeatureRequest adds a new feature request with an automatic first
// vote from its author.
// POST /api/feature-requests. Body: { "title": "...", "description": "..." }.
func (h *Handler) createFeatureRequest(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		apiError(c, http.StatusBadRequest, "title is required")
		return
	}

	var requestID int
	err := h.db.QueryRow(c,
		`INSERT INTO feature_requests (title, description, created_by)
		 VALUES ($1, $2, $3) RETURNING id`,
		strings.TrimSpace(body.Title), body.Description, userID).Scan(&requestID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create feature request")
		return
	}

	if _, err := h.db.Exec(c,
		`INSERT INTO feature_request_votes (request_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, requestID, userID); err != nil {
		h.log.Warnw("author self-vote failed", "request_id", requestID, "err", err)
	}

	h.features.Invalidate(featureCacheKey)
	h.events.Broadcast("feature-requests")
	c.JSON(http.StatusCreated, gin.H{"id": requestID})
}

// voteFeatureRequest records one vote per user per request. Repeat votes are
// idempotent no-ops thanks to the primary key on (request_id, user_id).
// POST /api/feature-requests/:id/vote.
func (h *Handler) voteFeatureRequest(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		`INSERT INTO feature_request_votes (request_id, user_id)
		 SELECT id, $2 FROM feature_requests WHERE id = $1
		 ON CONFLICT DO NOTHING`, id, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}
	if result.RowsAffected() == 0 {
		// Either the request doesn't exist or the user already voted.
		// Distinguish so the client can show the right message.
		var exists bool
		if err := h.db.QueryRow(c,
			"SELECT EXISTS(SELECT 1 FROM feature_requests WHERE id = $1)", id).Scan(&exists); err == nil && !exists {
			apiError(c, http.StatusNotFound, "feature request not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"voted": true, "changed": false})
		return
	}

	h.features.Invalidate(featureCacheKey)
	h.events.Broadcast("feature-requests")
	c.JSON(http.StatusOK, gin.H{"voted": true, "changed": true})
}
