package service

import (
	"context"
	"encoding/base64"
	"time"

	"go-qr-platform/internal/observer"
	"go-qr-platform/internal/render"
	"go-qr-platform/internal/repository"
	"go-qr-platform/pkg/models"
)

// DesignService validates styling payloads and drives the render engine.
type DesignService interface {
	CreateDesign(ctx context.Context, req *models.DesignRequest) (*models.DesignResponse, error)
	AvailableStyles() map[string]interface{}
}

type designService struct {
	images repository.ImageRepository
	engine *render.Engine
	events observer.Subject
}

// NewDesignService creates a design service.
func NewDesignService(images repository.ImageRepository, engine *render.Engine, events observer.Subject) DesignService {
	return &designService{
		images: images,
		engine: engine,
		events: events,
	}
}

func (s *designService) CreateDesign(ctx context.Context, req *models.DesignRequest) (*models.DesignResponse, error) {
	start := time.Now()

	raw, err := s.toRawOptions(req)
	if err != nil {
		s.publishRender(ctx, observer.RenderFailed, 0, err.Error(), nil)
		return nil, err
	}

	validated, err := render.ValidateOptions(raw)
	if err != nil {
		s.publishRender(ctx, observer.RenderFailed, 0, err.Error(), nil)
		return nil, err
	}

	if validated.EnumFallbacks > 0 {
		s.publishRender(ctx, observer.StyleFallback, 0, "", map[string]interface{}{
			"fallback_count": validated.EnumFallbacks,
		})
	}

	rendered, err := s.engine.Render(validated)
	if err != nil {
		s.publishRender(ctx, observer.RenderFailed, time.Since(start), err.Error(), nil)
		return nil, err
	}

	elapsed := time.Since(start)
	s.publishRender(ctx, observer.RenderCompleted, elapsed, "", map[string]interface{}{
		"width":  rendered.Width,
		"height": rendered.Height,
	})

	return &models.DesignResponse{
		Success:     true,
		ImageData:   base64.StdEncoding.EncodeToString(rendered.PNG),
		ImageFormat: "PNG",
		Width:       rendered.Width,
		Height:      rendered.Height,
		Metadata: models.DesignMetadata{
			Data:            rendered.Metadata.Data,
			ErrorCorrection: rendered.Metadata.ErrorCorrection,
			ModuleDrawer:    rendered.Metadata.ModuleDrawer,
			ColorMask:       rendered.Metadata.ColorMask,
			HasLogo:         rendered.Metadata.HasLogo,
			HasBackground:   rendered.Metadata.HasBackground,
			HasStyling:      rendered.Metadata.HasStyling,
		},
	}, nil
}

func (s *designService) AvailableStyles() map[string]interface{} {
	return render.AvailableStyles()
}

// toRawOptions overlays the request onto the documented defaults. Logo and
// background payloads are decoded here so a corrupt upload fails before any
// rendering work runs.
func (s *designService) toRawOptions(req *models.DesignRequest) (render.RawOptions, error) {
	raw := render.DefaultRawOptions()
	raw.Data = req.Data

	if req.Size != nil {
		raw.Size = *req.Size
	}
	if req.Border != nil {
		raw.Border = *req.Border
	}
	if req.ErrorCorrection != "" {
		raw.ErrorCorrection = req.ErrorCorrection
	}
	if req.FillColor != "" {
		raw.FillColor = req.FillColor
	}
	if req.BackColor != "" {
		raw.BackColor = req.BackColor
	}
	if req.ModuleDrawer != "" {
		raw.ModuleDrawer = req.ModuleDrawer
	}
	if req.ColorMask != "" {
		raw.ColorMask = req.ColorMask
	}
	if req.CornerRadius != nil {
		raw.CornerRadius = *req.CornerRadius
	}

	if req.LogoImage != "" {
		logo, err := s.images.FromBase64(req.LogoImage)
		if err != nil {
			return render.RawOptions{}, err
		}
		raw.Logo = logo
		if req.LogoSize != nil {
			raw.LogoSize = *req.LogoSize
		}
		if req.LogoPosition != "" {
			raw.LogoPosition = req.LogoPosition
		}
	}

	if req.Background != "" {
		background, err := s.images.FromBase64(req.Background)
		if err != nil {
			return render.RawOptions{}, err
		}
		raw.Background = background
	}

	if req.Styling != nil {
		styling := &render.RawStyling{
			BorderColor:  req.Styling.BorderColor,
			Shadow:       req.Styling.Shadow,
			ShadowColor:  req.Styling.ShadowColor,
			Text:         req.Styling.Text,
			TextColor:    req.Styling.TextColor,
			TextPosition: req.Styling.TextPosition,
		}
		if req.Styling.BorderWidth != nil {
			styling.BorderWidth = *req.Styling.BorderWidth
		}
		if req.Styling.ShadowOffset != nil {
			styling.ShadowOffset = *req.Styling.ShadowOffset
		}
		if req.Styling.ShadowOpacity != nil {
			styling.ShadowOpacity = *req.Styling.ShadowOpacity
		}
		if req.Styling.TextSize != nil {
			styling.TextSize = *req.Styling.TextSize
		}
		raw.Styling = styling
	}

	return raw, nil
}

func (s *designService) publishRender(ctx context.Context, eventType observer.EventType, elapsed time.Duration, errMsg string, metadata map[string]interface{}) {
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
