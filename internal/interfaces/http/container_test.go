package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rewardsboard/eventcast/internal/infrastructure/config"
	"github.com/rewardsboard/eventcast/internal/infrastructure/migration"
	"github.com/rewardsboard/eventcast/internal/shared/constants"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	manager, err := migration.NewManager(migration.StrategyAuto, "sqlite", log)
	require.NoError(t, err)
	require.NoError(t, manager.Migrate(db))

	cfg := &config.Config{}
	cfg.Cache.SweepInterval = time.Minute
	cfg.Scheduler.PublicationInterval = time.Hour
	cfg.Scheduler.JobTimeout = time.Second
	cfg.Engagement.BufferCapacity = 100
	cfg.Notification.EmailQueueSize = 10
	cfg.Notification.PushQueueSize = 10
	cfg.Notification.ActivityWindow = 24 * time.Hour
	cfg.Audience.CacheSize = 100
	cfg.Audience.CacheTTL = time.Minute

	c, err := NewContainer(db, cfg, log)
	require.NoError(t, err)
	c.SetupRoutes()
	c.Start()
	t.Cleanup(c.Shutdown)

	return c
}

func doJSON(t *testing.T, c *Container, method, path, userID string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(constants.HeaderXUserID, userID)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestContainer_HealthAndVersion(t *testing.T) {
	c := newTestContainer(t)

	w, _ := doJSON(t, c, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, c, http.MethodGet, "/version", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestContainer_SystemTemplatesSeededOnce(t *testing.T) {
	c := newTestContainer(t)

	w, env := doJSON(t, c, http.MethodPost, "/templates/system/initialize", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first struct {
		Created []string `json:"created"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.NotEmpty(t, first.Created)

	_, env = doJSON(t, c, http.MethodPost, "/templates/system/initialize", "", nil)
	var second struct {
		Created []string `json:"created"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, len(first.Created))
}

func TestContainer_PublishReadAndEngage(t *testing.T) {
	c := newTestContainer(t)

	w, _ := doJSON(t, c, http.MethodPost, "/subscriptions", "reader-1", map[string]any{
		"categories": []string{"events"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := doJSON(t, c, http.MethodPost, "/announcements", "editor-1", map[string]any{
		"title":        "Spring Festival",
		"content":      "The **festival** starts soon",
		"category":     "events",
		"priority":     "high",
		"is_published": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID          uint `json:"id"`
		IsPublished bool `json:"is_published"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	assert.True(t, created.IsPublished)

	w, env = doJSON(t, c, http.MethodGet, "/announcements/published", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID uint `json:"id"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	w, _ = doJSON(t, c, http.MethodPost, fmt.Sprintf("/announcements/%d/view", created.ID), "reader-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The engagement write invalidates the cached detail view.
	w, env = doJSON(t, c, http.MethodGet, fmt.Sprintf("/announcements/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Counters struct {
			Views int64 `json:"views"`
		} `json:"counters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, int64(1), detail.Counters.Views)

	w, _ = doJSON(t, c, http.MethodPost, fmt.Sprintf("/announcements/%d/like", created.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
