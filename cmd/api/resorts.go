package main

import (
	"context"
	"errors"

	"medi-skimap/internal/records"
	"medi-skimap/internal/types"

	"github.com/danielgtaylor/huma/v2"
)

// ResortReader defines the interface for stored resort lookups
type ResortReader interface {
	Resort(ctx context.Context, id int64) (*records.ResortRecord, error)
	Lifts(ctx context.Context, resortID int64) ([]records.LiftRecord, error)
}

// GetResortInput identifies a stored resort
type GetResortInput struct {
	ID int64 `path:"id" minimum:"1" example:"1" doc:"Stored resort id"`
}

// GetResortOutput represents the response for the resort endpoint
type GetResortOutput struct {
	Body struct {
		Resort records.ResortRecord `json:"resort"`
		Lifts  []records.LiftRecord `json:"lifts"`
	}
}

func (app *App) handleGetResort(ctx context.Context, input *GetResortInput) (*GetResortOutput, error) {
	if app.resorts == nil {
		return nil, huma.Error503ServiceUnavailable("storage is not configured")
	}

	resort, err := app.resorts.Resort(ctx, input.ID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, huma.Error404NotFound("resort not found", err)
	}
	if err != nil {
		app.logger.Error("failed to read resort", "resort_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to read resort")
	}

	lifts, err := app.resorts.Lifts(ctx, input.ID)
	if err != nil {
		app.logger.Error("failed to read lifts", "resort_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to read lifts")
	}

	resp := &GetResortOutput{}
	resp.Body.Resort = *resort
	resp.Body.Lifts = lifts
	if resp.Body.Lifts == nil {
		resp.Body.Lifts = []records.LiftRecord{}
	}
	return resp, nil
}
