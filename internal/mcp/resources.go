// ABOUTME: MCP resource implementations for the training log.
// ABOUTME: Provides trainlog://today, trainlog://records, and trainlog://streak resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriToday   = "trainlog://today"
	uriRecords = "trainlog://records"
	uriStreak  = "trainlog://streak"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriToday,
		Name:        "Today's Session",
		Description: "Sets, summary and media of today's session",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriRecords,
		Name:        "Personal Records",
		Description: "Heaviest work set and work set with the most reps",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uriStreak,
		Name:        "Training Streak",
		Description: "Longest and current runs of consecutive training days",
		MIMEType:    "application/json",
	}, s.handleStreakResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	view, err := s.sessionView(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return jsonResource(uriToday, view)
}

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(uriRecords, recs)
}

func (s *Server) handleStreakResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.streak(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(uriStreak, st)
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
