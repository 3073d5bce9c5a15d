package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordTrainingObservesDuration(t *testing.T) {
	before := &dto.Metric{}
	require.NoError(t, trainingDuration.Write(before))
	runsBefore := testutil.ToFloat64(trainingCounter.WithLabelValues(OutcomeSuccess))

	RecordTraining(OutcomeSuccess, 1500*time.Millisecond)

	after := &dto.Metric{}
	require.NoError(t, trainingDuration.Write(after))
	require.Equal(t, before.GetHistogram().GetSampleCount()+1, after.GetHistogram().GetSampleCount())
	require.InDelta(t, before.GetHistogram().GetSampleSum()+1.5, after.GetHistogram().GetSampleSum(), 1e-9)
	require.Equal(t, runsBefore+1, testutil.ToFloat64(trainingCounter.WithLabelValues(OutcomeSuccess)))
}

func TestRecordFlushMovesWatermarkOnlyOnSuccess(t *testing.T) {
	ts := time.Date(2025, time.October, 27, 20, 0, 0, 0, time.UTC)
	RecordFlush(OutcomeSuccess, ts)
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastFlushGauge))

	RecordFlush(OutcomeFailure, ts.Add(time.Hour))
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastFlushGauge))
}

func TestRecordAppendedIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2025, time.October, 1, 6, 30, 0, 0, time.UTC)
	RecordAppended(ts)
	RecordAppended(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastRecordGauge))
}
