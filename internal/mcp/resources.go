// ABOUTME: MCP resource implementations for fitlog.
// ABOUTME: Provides fitlog://today and fitlog://summary resources.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "fitlog://today"
	summaryURI = "fitlog://summary"
)

func (s *Server) registerResources() {
	// fitlog://today - everything logged today with totals against the goal
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Log",
		Description: "Meals, water, steps and workouts logged today, with totals against the current goal",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// fitlog://summary - profile, goal, training stats and latest weight
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Fitness Summary Dashboard",
		Description: "Profile, current goal, workout streak and weekly volume, and recent body weight",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.tracker.Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to save pending edits: %w", err)
	}
	today := s.sess.Today()
	rng := storage.DayRange(today)

	summary, err := storage.Summarize(s.repo, s.sess.UserID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize today: %w", err)
	}
	meals, err := s.repo.ListMeals(s.sess.UserID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	workouts, err := s.repo.ListWorkouts(s.sess.UserID, storage.WorkoutFilter{Range: rng})
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	result := map[string]interface{}{
		"date":     summary.Date,
		"summary":  summary,
		"meals":    meals,
		"workouts": workouts,
		"counts": map[string]int{
			"meals":    len(meals),
			"workouts": len(workouts),
		},
	}
	return jsonResource(todayURI, result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.tracker.Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to save pending edits: %w", err)
	}
	now := s.sess.Now()
	result := map[string]interface{}{
		"generated_at": now,
	}

	user, err := s.repo.GetUser(s.sess.UserID.String())
	switch {
	case err == nil:
		result["profile"] = user
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	goal, err := s.repo.GetGoal(s.sess.UserID)
	switch {
	case err == nil:
		result["goal"] = goal
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	st, err := storage.WorkoutStats(s.repo, s.sess.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute workout stats: %w", err)
	}
	result["workouts"] = st

	templates, err := s.repo.ListWorkouts(s.sess.UserID, storage.WorkoutFilter{Templates: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	lastDone := make(map[string]string, len(templates))
	for _, t := range templates {
		_, label, err := storage.LastPerformed(s.repo, t, now)
		if err != nil {
			return nil, err
		}
		lastDone[t.Name] = label
	}
	result["templates"] = lastDone

	body, err := s.repo.ListBodyMetrics(s.sess.UserID, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list body metrics: %w", err)
	}
	if body == nil {
		body = []*models.BodyMetrics{}
	}
	result["body_metrics"] = body

	return jsonResource(summaryURI, result)
}
