package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		important, urgent bool
		want              Quadrant
	}{
		{true, true, QuadrantDo},
		{true, false, QuadrantPlan},
		{false, true, QuadrantDelegate},
		{false, false, QuadrantEliminate},
	}
	for _, tc := range cases {
		got := Classify(tc.important, tc.urgent)
		assert.Equal(t, tc.want, got)
		assert.True(t, got.Valid())
		assert.Equal(t, got, Classify(tc.important, tc.urgent))

		imp, urg := got.Flags()
		assert.Equal(t, tc.important, imp)
		assert.Equal(t, tc.urgent, urg)
	}
}

func TestParseQuadrant(t *testing.T) {
	q, err := ParseQuadrant(" Plan ")
	require.NoError(t, err)
	assert.Equal(t, QuadrantPlan, q)

	q, err = ParseQuadrant("4")
	require.NoError(t, err)
	assert.Equal(t, QuadrantEliminate, q)

	_, err = ParseQuadrant("later")
	assert.Error(t, err)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("WEEK")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, v)

	_, err = ParseView("month")
	assert.Error(t, err)
}

func TestTaskCloneDetachesCompletedAt(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	task := Task{ID: 1, Completed: true, CompletedAt: &at}

	clone := task.Clone()
	*clone.CompletedAt = at.Add(time.Hour)

	assert.Equal(t, at, *task.CompletedAt)
}

func TestBigRocksClone(t *testing.T) {
	rocks := BigRocks{"work": {"ship"}}
	clone := rocks.Clone()
	clone["work"][0] = "changed"
	clone["home"] = []string{"x"}

	assert.Equal(t, BigRocks{"work": {"ship"}}, rocks)
}
