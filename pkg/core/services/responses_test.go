package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

func TestListResponses(t *testing.T) {
	client := &mockResponsesClient{employees: []model.Employee{employee("Anna", model.Monday)}}

	employees, err := ListResponses(context.Background(), client, zap.NewNop(), testSource)

	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, testSource, client.sources[0])
}

func TestClearResponses(t *testing.T) {
	client := &mockResponsesClient{cleared: 4}

	cleared, err := ClearResponses(context.Background(), client, zap.NewNop(), testSource)

	require.NoError(t, err)
	assert.Equal(t, 4, cleared)

	_, err = ClearResponses(context.Background(), &mockResponsesClient{err: errors.New("forbidden")}, zap.NewNop(), testSource)
	assert.Error(t, err)
}
