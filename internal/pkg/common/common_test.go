package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCustomError_WrapAndMatch(t *testing.T) {
	cause := errors.New("upstream said no")
	err := fmt.Errorf("suggest: %w", ErrAIServiceError.Wrap(cause))

	assert.True(t, errors.Is(err, ErrAIServiceError))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))

	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
	assert.Equal(t, "AI_SERVICE_ERROR", ce.Code)
	assert.Contains(t, ce.Error(), "upstream said no")
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError("name is required"))

	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrNotFound))
	assert.Equal(t, "create: name is required", err.Error())
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 1, 2,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids)

	ids, err = ParseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIDList("1,abc")
	assert.True(t, IsValidationError(err))

	_, err = ParseIDList("0")
	assert.Error(t, err)
}

func TestParseJSON_RejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.NoError(t, ParseJSON(`{"a":1}`, &v))
	assert.Error(t, ParseJSON(`{"a":1}{"b":2}`, &v))
}

func TestLoggerHelpersBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		LogInfo("test")
		LogWarn("test")
		LogDebug("test")
		LogError("test")
	})
}

func TestFilterFieldsDropsSecrets(t *testing.T) {
	fields := filterFields([]zap.Field{
		zap.String("openrouter_api_key", "sk-secret"),
		zap.String("Authorization", "Bearer x"),
		zap.String("model", "m"),
	})

	require.Len(t, fields, 1)
	assert.Equal(t, "model", fields[0].Key)
}
