package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adarena/internal/bench"
)

func TestSelectFunctors(t *testing.T) {
	all, err := selectFunctors("all")
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "log_sum_exp", all[0].Name(), "sorted by name")

	some, err := selectFunctors("max, sum")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "max", some[0].Name())
	assert.Equal(t, "sum", some[1].Name())

	_, err = selectFunctors("regression")
	assert.ErrorContains(t, err, "unknown functor")
}

func TestResultStatus(t *testing.T) {
	status, ok := resultStatus(bench.Result{GradientOK: true, ValueOK: true})
	assert.True(t, ok)
	assert.Equal(t, "ok", status)

	status, ok = resultStatus(bench.Result{GradientOK: false, ValueOK: true, Mismatch: bench.Mismatch{Index: 3}})
	assert.False(t, ok)
	assert.Equal(t, "MISMATCH@3", status)

	status, ok = resultStatus(bench.Result{GradientOK: true, ValueOK: false})
	assert.False(t, ok)
	assert.Equal(t, "VALUE MISMATCH", status)
}

func TestDefaultMaxSizeBelowFullSweep(t *testing.T) {
	assert.Less(t, defaultMaxSize, bench.MaxSizeIter)
}
