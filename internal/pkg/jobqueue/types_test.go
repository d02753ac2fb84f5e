package jobqueue

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected string
	}{
		{"Pending", JobStatusPending, "pending"},
		{"Processing", JobStatusProcessing, "processing"},
		{"Completed", JobStatusCompleted, "completed"},
		{"Failed", JobStatusFailed, "failed"},
		{"Retrying", JobStatusRetrying, "retrying"},
		{"Dead letter", JobStatusDeadLetter, "dead_letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestJob_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		job       *Job
		retryable bool
	}{
		{
			name:      "Failed job with retries remaining",
			job:       &Job{Status: JobStatusFailed, RetryCount: 1, MaxRetries: 3},
			retryable: true,
		},
		{
			name:      "Failed job with no retries remaining",
			job:       &Job{Status: JobStatusFailed, RetryCount: 3, MaxRetries: 3},
			retryable: false,
		},
		{
			name:      "Completed job",
			job:       &Job{Status: JobStatusCompleted, RetryCount: 1, MaxRetries: 3},
			retryable: false,
		},
		{
			name:      "Dead-lettered job",
			job:       &Job{Status: JobStatusDeadLetter, RetryCount: 1, MaxRetries: 3},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.job.IsRetryable())
		})
	}
}

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: 3}

	beforeTime := time.Now()
	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)
	assert.False(t, job.ProcessedAt.Before(beforeTime))

	job.MarkAsFailed("downstream returned 503")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "downstream returned 503", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)

	job.MarkAsDeadLetter("gave up")
	assert.Equal(t, JobStatusDeadLetter, job.Status)
	assert.Equal(t, "gave up", job.ErrorMsg)
}

func TestWebhookEventJobPayloadFromMap(t *testing.T) {
	received := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	original := WebhookEventJobPayload{
		Stream:     "invoice",
		Body:       `{"type":"invoice.paid"}`,
		ReceivedAt: received,
	}

	data := original.ToMap()
	assert.Equal(t, "invoice", data["stream"])
	assert.Equal(t, `{"type":"invoice.paid"}`, data["body"])

	result, err := WebhookEventJobPayloadFromMap(data)
	require.NoError(t, err)
	assert.Equal(t, original.Stream, result.Stream)
	assert.Equal(t, original.Body, result.Body)
	assert.True(t, received.Equal(result.ReceivedAt))
}

func TestWebhookEventJobPayloadFromMap_InvalidData(t *testing.T) {
	_, err := WebhookEventJobPayloadFromMap(map[string]interface{}{
		"stream": 42,
	})
	assert.Error(t, err)
}

func TestPermanent(t *testing.T) {
	base := errors.New("bad json")

	assert.Nil(t, Permanent(nil))
	assert.False(t, IsPermanent(base))

	err := fmt.Errorf("handle: %w", Permanent(base))
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "handle: bad json")
}

func TestJobJSONSerialization(t *testing.T) {
	now := time.Now()
	processedAt := now.Add(time.Minute)

	job := &Job{
		ID:          "test-job-123",
		Type:        JobTypeWebhookEvent,
		Status:      JobStatusRetrying,
		Payload:     map[string]interface{}{"stream": "transaction"},
		CreatedAt:   now,
		UpdatedAt:   now.Add(time.Second),
		ProcessedAt: &processedAt,
		ErrorMsg:    "timeout",
		RetryCount:  1,
		MaxRetries:  3,
	}

	jsonData, err := json.Marshal(job)
	require.NoError(t, err)

	var result Job
	require.NoError(t, json.Unmarshal(jsonData, &result))

	assert.Equal(t, job.ID, result.ID)
	assert.Equal(t, job.Type, result.Type)
	assert.Equal(t, job.Status, result.Status)
	assert.Equal(t, job.Payload, result.Payload)
	assert.Equal(t, job.ErrorMsg, result.ErrorMsg)
	assert.Equal(t, job.RetryCount, result.RetryCount)
	assert.Nil(t, result.CompletedAt)
	require.NotNil(t, result.ProcessedAt)
	assert.True(t, job.ProcessedAt.Sub(*result.ProcessedAt) < time.Millisecond)
}
