package main

import (
	"context"
	"errors"

	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/resort"
	"medi-skimap/internal/types"

	"github.com/danielgtaylor/huma/v2"
)

// CreateExtractionInput is the resort to extract
type CreateExtractionInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" example:"Zermatt" doc:"Resort name"`
		Location    string `json:"location,omitempty" example:"Zermatt, Switzerland" doc:"Geocoding query, defaults to the name"`
		Description string `json:"description,omitempty" doc:"Free-text resort description"`
		Website     string `json:"website,omitempty" doc:"Resort website"`
		Persist     bool   `json:"persist,omitempty" doc:"Store records and map artifacts"`
	}
}

// ExtractionSummary describes one finished extraction
type ExtractionSummary struct {
	Name               string          `json:"name" doc:"Resort name"`
	DisplayName        string          `json:"display_name" doc:"Geocoder display name"`
	Bounds             types.GeoBounds `json:"bounds" doc:"Padded bounding box"`
	Lifts              int             `json:"lifts"`
	Pistes             int             `json:"pistes"`
	WaterBodies        int             `json:"water_bodies"`
	MinorContours      int             `json:"minor_contours"`
	MajorContours      int             `json:"major_contours"`
	ElevationAvailable bool            `json:"elevation_available" doc:"False when contours were skipped because elevation was unavailable"`
	Warnings           []string        `json:"warnings" doc:"Features skipped or patched during the run"`
	DurationMs         int64           `json:"duration_ms"`
	ResortID           int64           `json:"resort_id,omitempty" doc:"Stored resort id when persisted"`
	ImageURL           string          `json:"image_url,omitempty" doc:"Public map URL when persisted"`
}

// CreateExtractionOutput represents the response for the extraction endpoint
type CreateExtractionOutput struct {
	Body ExtractionSummary
}

func (app *App) handleCreateExtraction(ctx context.Context, input *CreateExtractionInput) (*CreateExtractionOutput, error) {
	info := resort.Info{
		Name:        input.Body.Name,
		Location:    input.Body.Location,
		Description: input.Body.Description,
		Website:     input.Body.Website,
	}

	var out resort.Outcome
	if input.Body.Persist {
		if app.loader == nil {
			return nil, huma.Error503ServiceUnavailable("storage is not configured")
		}
		out = app.loader.Load(ctx, info)
	} else {
		res, err := app.extractor.Run(ctx, info.Query())
		out = resort.Outcome{Resort: info, Result: res, Err: err}
	}

	if out.Err != nil {
		return nil, app.extractionError(info, out.Err)
	}

	return &CreateExtractionOutput{Body: summarize(info, out)}, nil
}

func summarize(info resort.Info, out resort.Outcome) ExtractionSummary {
	res := out.Result
	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}
	return ExtractionSummary{
		Name:               info.Name,
		DisplayName:        res.Area.DisplayName,
		Bounds:             res.Area.Bounds,
		Lifts:              len(res.Assembly.Lifts),
		Pistes:             len(res.Assembly.Pistes),
		WaterBodies:        len(res.Assembly.WaterBodies),
		MinorContours:      len(res.Contours.Minor),
		MajorContours:      len(res.Contours.Major),
		ElevationAvailable: res.ElevationAvailable,
		Warnings:           warnings,
		DurationMs:         res.Duration.Milliseconds(),
		ResortID:           out.ResortID,
		ImageURL:           out.ImageURL,
	}
}

// extractionError maps pipeline failures onto HTTP problems.
func (app *App) extractionError(info resort.Info, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return huma.Error404NotFound("no location found for "+info.Query(), err)
	case errors.Is(err, types.ErrNoData):
		return huma.Error422UnprocessableEntity("no lifts found in "+info.Query(), err)
	case errors.Is(err, types.ErrUpstream):
		return huma.Error502BadGateway("upstream geodata service failed", err)
	default:
		app.logger.Error("extraction failed", "resort", info.Name, "error", err)
		return huma.Error500InternalServerError("extraction failed")
	}
}

var _ resort.Runner = (*pipeline.Extractor)(nil)
