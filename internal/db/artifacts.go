package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/course-planner/internal/types"
)

// GetRecommendationByRunID reassembles the result bundle stored for a run.
// It returns nil when the run has no ranked recommendations stored.
func (db *DB) GetRecommendationByRunID(ctx context.Context, runID uuid.UUID) (*types.Recommendation, error) {
	var rec types.Recommendation

	found, err := db.loadArtifact(ctx, runID, StepRecommendations, &rec.Recommendations)
	if err != nil || !found {
		return nil, err
	}
	if _, err := db.loadArtifact(ctx, runID, StepTimeline, &rec.Timeline); err != nil {
		return nil, err
	}
	if _, err := db.loadArtifact(ctx, runID, StepDegreeProgress, &rec.DegreeProgress); err != nil {
		return nil, err
	}
	if _, err := db.loadArtifact(ctx, runID, StepSkillCoverage, &rec.SkillCoverage); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRequestByRunID loads the request a run was started with
func (db *DB) GetRequestByRunID(ctx context.Context, runID uuid.UUID) (*types.RecommendationRequest, error) {
	var req types.RecommendationRequest
	found, err := db.loadArtifact(ctx, runID, StepRequest, &req)
	if err != nil || !found {
		return nil, err
	}
	return &req, nil
}

func (db *DB) loadArtifact(ctx context.Context, runID uuid.UUID, step string, target any) (bool, error) {
	content, err := db.GetArtifact(ctx, runID, step)
	if err != nil {
		return false, err
	}
	if content == nil {
		return false, nil
	}
	if err := json.Unmarshal(content, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return true, nil
}
