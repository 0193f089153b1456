package health

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"recipe-pantry/internal/core/ai/queue"
	aiservice "recipe-pantry/internal/core/ai/service"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/infrastructure/database"
	"recipe-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const readyTimeout = 2 * time.Second

var errDBMissing = errors.New("database not configured")

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status       string                 `json:"status"`
	Timestamp    time.Time              `json:"timestamp"`
	Version      string                 `json:"version"`
	Database     string                 `json:"database"`
	AIConfigured bool                   `json:"ai_configured"`
	Runtime      map[string]interface{} `json:"runtime"`
	Queue        *queue.Status          `json:"queue,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.MustGet("config").(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Database:  "ok",
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if aiSvc, ok := c.Get("ai_service"); ok {
		if svc, ok := aiSvc.(*aiservice.Service); ok {
			response.AIConfigured = svc.Configured()
			response.Queue = svc.QueueStatus()
		}
	}

	if err := pingDB(c); err != nil {
		response.Status = "degraded"
		response.Database = err.Error()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("status", response.Status),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料庫可連線時才回報就緒
func ReadinessCheck(c *gin.Context) {
	if err := pingDB(c); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func pingDB(c *gin.Context) error {
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		return errDBMissing
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	return database.Ping(ctx, db)
}
