package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// ListResponses returns the employees who answered the intake form
func ListResponses(ctx context.Context, responsesClient ResponsesClient, logger *zap.Logger, src sheetsclient.ResponsesSource) ([]model.Employee, error) {
	logger.Debug("Fetching responses", zap.String("tab", src.Tab))
	employees, err := responsesClient.ListResponses(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}
	logger.Debug("Fetched responses", zap.Int("count", len(employees)))
	return employees, nil
}

// ClearResponses empties the responses tab below its header, ready for the next week.
// Stored schedules keep their own roster snapshot and are unaffected.
func ClearResponses(ctx context.Context, responsesClient ResponsesClient, logger *zap.Logger, src sheetsclient.ResponsesSource) (int, error) {
	cleared, err := responsesClient.ClearResponses(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("failed to clear responses: %w", err)
	}
	logger.Info("Cleared responses", zap.String("tab", src.Tab), zap.Int("rows", cleared))
	return cleared, nil
}
