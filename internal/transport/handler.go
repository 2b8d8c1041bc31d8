package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-qr-platform/internal/config"
	apperrors "go-qr-platform/internal/errors"
	"go-qr-platform/internal/logger"
	"go-qr-platform/internal/observer"
	"go-qr-platform/internal/ratelimit"
	"go-qr-platform/internal/service"
	"go-qr-platform/pkg/models"
	"go-qr-platform/pkg/validation"
)

// maxBatchImages caps one batch decode request.
const maxBatchImages = 10

type Base64DecodeRequest struct {
	Image string `json:"image" binding:"required"`
}

type URLDecodeRequest struct {
	URL string `json:"url" binding:"required"`
}

type BlobDecodeRequest struct {
	Blob string `json:"blob" binding:"required"`
}

type BatchDecodeRequest struct {
	Images []string `json:"images" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Handlers bundles the dependencies the HTTP surface needs.
type Handlers struct {
	Scans     service.ScanService
	Designs   service.DesignService
	Limiter   *ratelimit.Limiter
	Events    observer.Subject
	Validator *validation.PayloadValidator
	Config    *config.Config
}

// NewHandler builds the gin router with all routes and middleware wired.
func NewHandler(h Handlers) http.Handler {
	r := gin.Default()

	// Add middleware
	middlewares := []gin.HandlerFunc{
		requestSizeLimiter(h.Config.MaxRequestBodySize),
		errorHandler(),
	}
	if h.Config.RateLimitEnabled && h.Limiter != nil {
		middlewares = append(middlewares, rateLimitMiddleware(h.Limiter, h.Config.DefaultTier, h.Events))
	}
	r.Use(middlewares...)

	// Configure routes
	r.GET("/health", healthCheck(h.Limiter))

	v1 := r.Group("/api/v1")
	{
		qr := v1.Group("/qr")
		qr.POST("/decode", decodeUpload(h))
		qr.POST("/decode-base64", decodeBase64(h))
		qr.POST("/decode-url", decodeURL(h))
		qr.POST("/decode-blob", decodeBlob(h))
		qr.POST("/decode-batch", decodeBatch(h))

		designer := v1.Group("/designer")
		designer.POST("/create", createDesign(h))
		designer.GET("/styles", listStyles(h))

		limits := v1.Group("/rate-limits")
		limits.GET("/usage", rateLimitUsage(h))
		limits.POST("/reset/:identifier", rateLimitReset(h))
	}

	return r
}

// decodeUpload reads the image from a multipart "image" field, falling back
// to the raw request body.
func decodeUpload(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		data, err := uploadBytes(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "could not read uploaded image", err)
			return
		}

		response, err := h.Scans.DecodeImage(ctx, data)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "decode failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func decodeBase64(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		var req Base64DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := h.Validator.ValidateBase64Payload(req.Image); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image payload", err)
			return
		}

		response, err := h.Scans.DecodeBase64(ctx, req.Image)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "decode failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func decodeURL(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		var req URLDecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := h.Validator.ValidateImageURL(req.URL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
			return
		}

		logger.WithFields(logrus.Fields{"url": req.URL, "ip": c.ClientIP()}).Debug("Fetching image for decode")

		response, err := h.Scans.DecodeURL(ctx, req.URL)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("Image fetch timeout", err)
			}
			respondError(c, apperrors.GetStatusCode(err), "decode failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func decodeBlob(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		var req BlobDecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		response, err := h.Scans.DecodeBlob(ctx, req.Blob)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "decode failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func decodeBatch(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		var req BatchDecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if len(req.Images) == 0 {
			respondError(c, http.StatusBadRequest, "batch must contain at least one image",
				apperrors.NewValidationError("empty batch", nil))
			return
		}
		if len(req.Images) > maxBatchImages {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("batch exceeds maximum of %d images", maxBatchImages),
				apperrors.NewValidationError("batch too large", nil))
			return
		}

		payloads := make([][]byte, len(req.Images))
		for i, payload := range req.Images {
			// Malformed entries stay nil; the service reports them per slot.
			if err := h.Validator.ValidateBase64Payload(payload); err == nil {
				payloads[i] = decodedBase64(payload)
			}
		}

		c.JSON(http.StatusOK, h.Scans.DecodeBatch(ctx, payloads))
	}
}

func createDesign(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, h.Config)
		defer cancel()

		var req models.DesignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		response, err := h.Designs.CreateDesign(ctx, &req)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "design failed", err)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func listStyles(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.Designs.AvailableStyles())
	}
}

func rateLimitUsage(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter == nil {
			respondError(c, http.StatusServiceUnavailable, "rate limiting disabled",
				apperrors.NewDependencyError("rate limiting is not enabled", nil))
			return
		}

		identifier := clientIdentifier(c)
		tier := clientTier(c, h.Config.DefaultTier)

		stats, err := h.Limiter.UsageStats(c.Request.Context(), identifier, tier)
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, "counter store unavailable",
				apperrors.NewDependencyError("counter store unavailable", err))
			return
		}

		c.JSON(http.StatusOK, models.UsageResponse{
			Identifier: identifier,
			Tier:       string(stats.Tier),
			Limits: map[string]int{
				"minute": stats.Limits.PerMinute,
				"hour":   stats.Limits.PerHour,
				"day":    stats.Limits.PerDay,
			},
			CurrentUsage: stats.CurrentUsage,
			Remaining:    stats.Remaining,
			ResetTimes:   stats.ResetTimes,
		})
	}
}

func rateLimitReset(h Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter == nil {
			respondError(c, http.StatusServiceUnavailable, "rate limiting disabled",
				apperrors.NewDependencyError("rate limiting is not enabled", nil))
			return
		}

		identifier := c.Param("identifier")
		reset := h.Limiter.Reset(c.Request.Context(), identifier)
		c.JSON(http.StatusOK, models.ResetResponse{Identifier: identifier, Reset: reset})
	}
}

func healthCheck(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status":  "available",
			"version": "1.0.0",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if limiter != nil {
			if limiter.Available(c.Request.Context()) {
				status["rate_limiter"] = "available"
			} else {
				status["rate_limiter"] = "degraded"
			}
		}
		c.JSON(http.StatusOK, status)
	}
}

func requestContext(c *gin.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
}

// decodedBase64 strips an optional data-URL prefix and decodes the payload.
// Returns nil on malformed input.
func decodedBase64(payload string) []byte {
	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	return data
}

func uploadBytes(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
