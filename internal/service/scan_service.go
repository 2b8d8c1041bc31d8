package service

import (
	"context"
	"image"
	"time"

	"go-qr-platform/internal/decode"
	"go-qr-platform/internal/observer"
	"go-qr-platform/internal/repository"
	"go-qr-platform/pkg/models"
)

// ScanService runs the decode pipeline over caller-supplied image
// references and shapes the transport response.
type ScanService interface {
	DecodeImage(ctx context.Context, data []byte) (*models.ScanResponse, error)
	DecodeBase64(ctx context.Context, payload string) (*models.ScanResponse, error)
	DecodeURL(ctx context.Context, imageURL string) (*models.ScanResponse, error)
	DecodeBlob(ctx context.Context, blobURL string) (*models.ScanResponse, error)
	DecodeBatch(ctx context.Context, payloads [][]byte) *models.BatchScanResponse
}

type scanService struct {
	images   repository.ImageRepository
	pipeline *decode.Pipeline
	events   observer.Subject
}

// NewScanService creates a scan service.
func NewScanService(images repository.ImageRepository, pipeline *decode.Pipeline, events observer.Subject) ScanService {
	return &scanService{
		images:   images,
		pipeline: pipeline,
		events:   events,
	}
}

func (s *scanService) DecodeImage(ctx context.Context, data []byte) (*models.ScanResponse, error) {
	img, err := s.images.FromBytes(data)
	if err != nil {
		s.publish(ctx, observer.ScanFailed, 0, err.Error(), nil)
		return nil, err
	}
	return s.scan(ctx, img), nil
}

func (s *scanService) DecodeBase64(ctx context.Context, payload string) (*models.ScanResponse, error) {
	img, err := s.images.FromBase64(payload)
	if err != nil {
		s.publish(ctx, observer.ScanFailed, 0, err.Error(), nil)
		return nil, err
	}
	return s.scan(ctx, img), nil
}

func (s *scanService) DecodeURL(ctx context.Context, imageURL string) (*models.ScanResponse, error) {
	img, err := s.images.FromURL(ctx, imageURL)
	if err != nil {
		s.publish(ctx, observer.ScanFailed, 0, err.Error(), map[string]interface{}{"url": imageURL})
		return nil, err
	}
	return s.scan(ctx, img), nil
}

func (s *scanService) DecodeBlob(ctx context.Context, blobURL string) (*models.ScanResponse, error) {
	img, err := s.images.FromBlob(ctx, blobURL)
	if err != nil {
		s.publish(ctx, observer.ScanFailed, 0, err.Error(), map[string]interface{}{"blob": blobURL})
		return nil, err
	}
	return s.scan(ctx, img), nil
}

func (s *scanService) DecodeBatch(ctx context.Context, payloads [][]byte) *models.BatchScanResponse {
	images := make([]image.Image, len(payloads))
	unreadable := make([]bool, len(payloads))
	for i, data := range payloads {
		img, err := s.images.FromBytes(data)
		if err != nil {
			unreadable[i] = true
			continue
		}
		images[i] = img
	}

	// Unreadable slots decode a 1x1 placeholder; their results are
	// overwritten below so indexes stay aligned with the input.
	for i := range images {
		if images[i] == nil {
			images[i] = image.NewGray(image.Rect(0, 0, 1, 1))
		}
	}

	decoded := s.pipeline.DecodeBatch(images, 0)

	batch := &models.BatchScanResponse{Results: make([]models.ScanResponse, len(payloads))}
	for i := range payloads {
		if unreadable[i] {
			batch.Results[i] = models.ScanResponse{
				Success: false,
				Symbols: []models.SymbolInfo{},
				Error:   "Could not read the image file",
			}
			continue
		}
		batch.Results[i] = *s.toResponse(decoded[i], 0)
	}
	return batch
}

func (s *scanService) scan(ctx context.Context, img image.Image) *models.ScanResponse {
	start := time.Now()
	result := s.pipeline.Decode(img)
	elapsed := time.Since(start)

	if result.Found() {
		s.publish(ctx, observer.ScanCompleted, elapsed, "", map[string]interface{}{
			"symbols": len(result.Symbols),
			"engine":  result.Symbols[0].Engine,
		})
	} else {
		s.publish(ctx, observer.ScanFailed, elapsed, result.ErrorMessage, nil)
	}

	return s.toResponse(result, elapsed)
}

func (s *scanService) toResponse(result decode.Result, elapsed time.Duration) *models.ScanResponse {
	response := &models.ScanResponse{
		Success:           result.Found(),
		Symbols:           make([]models.SymbolInfo, 0, len(result.Symbols)),
		Error:             result.ErrorMessage,
		ProcessingTimeSec: elapsed.Seconds(),
	}

	for _, sym := range result.Symbols {
		info := models.SymbolInfo{
			Data:         sym.Text,
			Format:       string(sym.Format),
			SourceEngine: sym.Engine,
			Content:      toContentInfo(decode.Classify(sym.Text)),
		}
		if sym.Box != nil {
			info.BoundingBox = &models.BoundingBox{
				X:      sym.Box.Min.X,
				Y:      sym.Box.Min.Y,
				Width:  sym.Box.Dx(),
				Height: sym.Box.Dy(),
			}
		}
		response.Symbols = append(response.Symbols, info)
	}
	return response
}

func toContentInfo(content decode.ContentInfo) models.ContentInfo {
	info := models.ContentInfo{
		Type:   string(content.Type),
		Length: content.Length,
	}
	if content.WiFi != nil {
		info.WiFi = &models.WiFiDetail{
			SSID:     content.WiFi.SSID,
			Security: content.WiFi.Security,
			Password: content.WiFi.Password,
			Hidden:   content.WiFi.Hidden,
		}
	}
	return info
}

func (s *scanService) publish(ctx context.Context, eventType observer.EventType, elapsed time.Duration, errMsg string, metadata map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.NotifyObservers(ctx, observer.Event{
		EventType:      eventType,
		Timestamp:      time.Now(),
		ProcessingTime: elapsed,
		Success:        errMsg == "",
		ErrorMessage:   errMsg,
		Metadata:       metadata,
	})
}
