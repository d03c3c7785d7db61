package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// Ensure Importer implements the interface.
var _ driving.PhotoImporter = (*Importer)(nil)

// Importer approves photos into the cart through a short-lived session,
// or renders them directly for export.
type Importer struct {
	decoder driven.ImageDecoder
	session SessionConfig
}

// NewImporter creates an importer. Every import gets its own SessionController
// built from cfg; OnChange is ignored.
func NewImporter(decoder driven.ImageDecoder, cfg SessionConfig) *Importer {
	cfg.OnChange = nil
	return &Importer{decoder: decoder, session: cfg}
}

// Import decodes req.Data and approves it. Acquisition failures wrap
// domain.ErrAcquisition and leave the cart untouched.
func (im *Importer) Import(ctx context.Context, req driving.ImportRequest) (driving.ImportResult, error) {
	var result driving.ImportResult

	session, err := NewSessionController(im.session)
	if err != nil {
		return result, err
	}
	defer session.Close()

	if err := session.SelectService(req.ServiceID); err != nil {
		return result, err
	}

	session.BeginCapture(req.Mode)
	src, err := im.decoder.Decode(req.Data, req.Mode)
	if err != nil {
		return result, session.AcquisitionFailed(err)
	}
	if err := session.SetSource(src); err != nil {
		return result, err
	}

	if req.Country != "" {
		result.Resolution = session.SetCountryQuery(req.Country)
	}
	if req.PresetID != "" {
		if err := session.SelectPreset(req.PresetID); err != nil {
			return result, err
		}
	}
	if req.Transform != nil {
		if err := session.UpdateTransform(*req.Transform); err != nil {
			return result, err
		}
	}

	result.Item, result.Save, err = session.Approve(ctx)
	return result, err
}

// Render composes req.Data at the chosen preset's pixel size. A preset must
// come from the service, the country or an explicit id.
func (im *Importer) Render(ctx context.Context, req driving.RenderRequest) (driving.RenderResult, error) {
	var result driving.RenderResult

	if req.ServiceID != "" {
		svc, ok := im.session.Services.Service(req.ServiceID)
		if !ok {
			return result, fmt.Errorf("service %q: %w", req.ServiceID, domain.ErrNotFound)
		}
		result.PresetID = svc.DefaultPresetID
	}
	if req.Country != "" {
		id, ok := im.session.Resolver.Resolve(req.Country)
		result.Resolution = domain.CountryResolution{Query: req.Country, PresetID: id, Found: ok}
		if ok && id != result.PresetID {
			result.PresetID = id
			result.Resolution.Applied = true
		}
	}
	if req.PresetID != "" {
		if _, ok := im.session.Presets.Preset(req.PresetID); !ok {
			return result, fmt.Errorf("%w: unknown preset %q", domain.ErrInvalidInput, req.PresetID)
		}
		result.PresetID = req.PresetID
	}
	if result.PresetID == "" {
		return result, fmt.Errorf("%w: a service, country or preset is required", domain.ErrInvalidInput)
	}

	transform := domain.DefaultEditTransform()
	if req.Transform != nil {
		if err := ValidateTransform(*req.Transform); err != nil {
			return result, err
		}
		transform = *req.Transform
	}

	src, err := im.decoder.Decode(req.Data, domain.CaptureUpload)
	if err != nil {
		if errors.Is(err, domain.ErrAcquisition) {
			return result, err
		}
		return result, fmt.Errorf("%w: %w", domain.ErrAcquisition, err)
	}

	target := im.session.Presets.PixelDimensions(result.PresetID)
	result.Image, err = im.session.Compositor.Compose(ctx, src, target, transform)
	if err != nil {
		return result, fmt.Errorf("compose photo: %w", err)
	}
	return result, nil
}
