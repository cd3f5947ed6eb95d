package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearsignal/intel-cli/internal/model"
)

func batchRequests(n int) []model.IntelligenceRequest {
	reqs := make([]model.IntelligenceRequest, n)
	for i := range reqs {
		reqs[i] = model.IntelligenceRequest{
			Query:          "pricing moves",
			SubjectName:    "Acme Corp",
			DomainContext:  "fintech",
			SearchCategory: model.CategoryCompetitive,
			RecencyWindow:  model.RecencyWeek,
		}
	}
	return reqs
}

func TestRunBatch_PreservesOrderAndLength(t *testing.T) {
	env := unconfiguredEnv()

	reqs := batchRequests(7)
	envelopes, err := runBatch(context.Background(), env.Pipeline, reqs, 3)
	require.NoError(t, err)
	require.Len(t, envelopes, 7)

	for i, e := range envelopes {
		require.NotNil(t, e, "slot %d", i)
		assert.Equal(t, "unconfigured", e.Provenance.DegradationReason)
		assert.Equal(t, "Acme Corp", e.Provenance.SubjectName)
	}

	assert.Equal(t, 7, env.Collector.Snapshot().Total)
}

func TestRunBatch_InvalidRequestYieldsGenericFallbackSlot(t *testing.T) {
	env := unconfiguredEnv()

	reqs := batchRequests(3)
	reqs[1].Query = "" // fails validation

	envelopes, err := runBatch(context.Background(), env.Pipeline, reqs, 2)
	require.NoError(t, err)
	require.Len(t, envelopes, 3)

	assert.Equal(t, "unconfigured", envelopes[0].Provenance.DegradationReason)
	assert.Equal(t, "generic-fallback", envelopes[1].Provenance.DegradationReason)
	assert.Equal(t, "unconfigured", envelopes[2].Provenance.DegradationReason)
}

func TestRunBatch_Empty(t *testing.T) {
	env := unconfiguredEnv()

	envelopes, err := runBatch(context.Background(), env.Pipeline, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, envelopes)
}

func TestRunBatch_ConcurrencyFloor(t *testing.T) {
	env := unconfiguredEnv()

	done := make(chan struct{})
	go func() {
		defer close(done)
		envelopes, err := runBatch(context.Background(), env.Pipeline, batchRequests(2), 0)
		assert.NoError(t, err)
		assert.Len(t, envelopes, 2)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runBatch with zero concurrency must not deadlock")
	}
}
