package surfacer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vaultmind/internal/storage"
	"vaultmind/internal/storage/mocks"
)

var (
	now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg = Config{HalfLife: 30 * 24 * time.Hour, Cooldown: 72 * time.Hour}
)

func daysAgo(d float64) time.Time {
	return now.Add(-time.Duration(d * float64(24*time.Hour)))
}

func ids(scored []Scored) []int64 {
	out := make([]int64, len(scored))
	for i, s := range scored {
		out[i] = s.ID
	}
	return out
}

func TestDecay(t *testing.T) {
	half := 10 * time.Hour
	assert.Zero(t, Decay(0, half))
	assert.Zero(t, Decay(-time.Hour, half))
	assert.InDelta(t, 0.5, Decay(half, half), 1e-12)
	assert.InDelta(t, 0.75, Decay(2*half, half), 1e-12)

	prev := 0.0
	for h := 1; h < 500; h += 7 {
		d := Decay(time.Duration(h)*time.Hour, half)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, 1.0)
		prev = d
	}
}

func TestRank_OldImportantFirst(t *testing.T) {
	records := []storage.InsightRecord{
		{ID: 1, Importance: 0.3, CreatedAt: daysAgo(1)},
		{ID: 2, Importance: 0.9, CreatedAt: daysAgo(60)},
	}

	got := Rank(records, now, cfg, 10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
	assert.InDelta(t, 0.9*0.75, got[0].Score, 1e-9)
	assert.InDelta(t, 60.0, got[0].IdleDays, 1e-9)
}

func TestRank(t *testing.T) {
	recalledRecently := daysAgo(1)
	recalledLongAgo := daysAgo(50)
	recalledLongAgo40 := daysAgo(40)

	tests := []struct {
		name    string
		records []storage.InsightRecord
		max     int
		want    []int64
	}{
		{
			name: "cooldown excludes recently recalled",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 1, CreatedAt: daysAgo(90), LastRecalledAt: &recalledRecently},
				{ID: 2, Importance: 0.5, CreatedAt: daysAgo(10)},
			},
			want: []int64{2},
		},
		{
			name: "last recall resets the clock",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 0.8, CreatedAt: daysAgo(200), LastRecalledAt: &recalledLongAgo},
				{ID: 2, Importance: 0.8, CreatedAt: daysAgo(100)},
			},
			want: []int64{2, 1},
		},
		{
			name: "ties break by creation then id",
			records: []storage.InsightRecord{
				{ID: 3, Importance: 0.5, CreatedAt: daysAgo(40)},
				{ID: 2, Importance: 0.5, CreatedAt: daysAgo(60), LastRecalledAt: &recalledLongAgo40},
				{ID: 1, Importance: 0.5, CreatedAt: daysAgo(40)},
			},
			want: []int64{2, 1, 3},
		},
		{
			name: "zero importance is never surfaced",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 0, CreatedAt: daysAgo(90)},
				{ID: 2, Importance: 0.4, CreatedAt: daysAgo(10)},
			},
			want: []int64{2},
		},
		{
			name: "insight created now is not forgotten",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 0.9, CreatedAt: now},
			},
			want: []int64{},
		},
		{
			name: "max results truncates",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 0.2, CreatedAt: daysAgo(40)},
				{ID: 2, Importance: 0.9, CreatedAt: daysAgo(40)},
				{ID: 3, Importance: 0.5, CreatedAt: daysAgo(40)},
			},
			max:  2,
			want: []int64{2, 3},
		},
		{
			name: "future timestamps score zero",
			records: []storage.InsightRecord{
				{ID: 1, Importance: 1, CreatedAt: now.Add(time.Hour)},
				{ID: 2, Importance: 0.1, CreatedAt: daysAgo(3)},
			},
			want: []int64{2},
		},
		{
			name:    "empty",
			records: nil,
			want:    []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.records, now, cfg, tt.max)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)
	_, err = New(nil, Config{HalfLife: time.Hour, Cooldown: -time.Hour})
	assert.Error(t, err)
	_, err = New(nil, Config{HalfLife: time.Hour, RelationWindow: -time.Minute})
	assert.Error(t, err)
	s, err := New(nil, cfg)
	assert.NoError(t, err)
	assert.NotNil(t, s)
}

func TestSurfacer_SurfaceForgotten(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockInsightStore(ctrl)
	s, err := New(source, cfg)
	require.NoError(t, err)

	records := []storage.InsightRecord{
		{ID: 1, Importance: 0.3, CreatedAt: daysAgo(1)},
		{ID: 2, Importance: 0.9, CreatedAt: daysAgo(60), RecallCount: 4},
		{ID: 3, Importance: 0.5, CreatedAt: daysAgo(20)},
	}
	source.EXPECT().ListAll(gomock.Any()).Return(records, nil)
	source.EXPECT().MarkRecalled(gomock.Any(), []int64{2, 3}, now).Return(nil)

	got, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))

	for _, r := range got {
		require.NotNil(t, r.LastRecalledAt, "record %d", r.ID)
		assert.True(t, r.LastRecalledAt.Equal(now), "record %d", r.ID)
		assert.Empty(t, r.RelatedTo)
	}
	assert.Equal(t, 5, got[0].RecallCount)
	assert.Equal(t, 1, got[1].RecallCount)
	assert.Nil(t, records[1].LastRecalledAt, "input records are not modified")
}

func TestSurfacer_SurfaceForgotten_JustRemembered(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockInsightStore(ctrl)
	s, err := New(source, cfg)
	require.NoError(t, err)

	// No MarkRecalled expectation: a call would fail the test.
	source.EXPECT().ListAll(gomock.Any()).Return([]storage.InsightRecord{
		{ID: 1, Concept: "fresh", ConceptNorm: "fresh", Importance: 0.9, CreatedAt: now},
	}, nil)

	got, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSurfacer_SurfaceForgotten_Concepts(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockInsightStore(ctrl)
	related := cfg
	related.RelationWindow = time.Hour
	s, err := New(source, related)
	require.NoError(t, err)

	t0 := daysAgo(30)
	records := []storage.InsightRecord{
		{ID: 1, ConceptNorm: "kafka streams", Importance: 0.8, CreatedAt: t0},
		{ID: 2, ConceptNorm: "consumer lag", Importance: 0.6, CreatedAt: t0.Add(30 * time.Minute)},
		{ID: 3, ConceptNorm: "cooking", Importance: 0.9, CreatedAt: daysAgo(20)},
		// Related to consumer lag only, two steps from kafka.
		{ID: 4, ConceptNorm: "ml ops", Importance: 1, CreatedAt: t0.Add(80 * time.Minute)},
	}
	source.EXPECT().ListAll(gomock.Any()).Return(records, nil)
	source.EXPECT().MarkRecalled(gomock.Any(), []int64{1, 2}, now).Return(nil)

	got, err := s.SurfaceForgotten(context.Background(), now, Query{Concepts: []string{"  Kafka "}})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids(got))
	assert.Empty(t, got[0].RelatedTo)
	assert.Equal(t, "kafka streams", got[1].RelatedTo)
}

func TestRelatedConcepts(t *testing.T) {
	t0 := daysAgo(10)
	records := []storage.InsightRecord{
		{ID: 1, ConceptNorm: "rust ownership", CreatedAt: t0},
		{ID: 2, ConceptNorm: "borrow checker", CreatedAt: t0.Add(10 * time.Minute)},
		{ID: 3, ConceptNorm: "lifetimes", CreatedAt: t0.Add(20 * time.Minute)},
		{ID: 4, ConceptNorm: "lifetimes", CreatedAt: t0.Add(25 * time.Minute)},
		{ID: 5, ConceptNorm: "gardening", CreatedAt: daysAgo(2)},
	}

	tests := []struct {
		name    string
		current []string
		window  time.Duration
		want    map[string]string
	}{
		{
			name:    "direct matches only without a window",
			current: []string{"RUST"},
			want:    map[string]string{"rust ownership": ""},
		},
		{
			name:    "strongest relationship names the match",
			current: []string{"rust", "borrow"},
			window:  time.Hour,
			want:    map[string]string{"rust ownership": "", "borrow checker": "", "lifetimes": "borrow checker"},
		},
		{
			name:    "no match",
			current: []string{"haskell"},
			window:  time.Hour,
			want:    map[string]string{},
		},
		{
			name:    "blank concepts are ignored",
			current: []string{"   "},
			window:  time.Hour,
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelatedConcepts(records, tt.current, tt.window))
		})
	}
}

func TestSurfacer_SurfaceForgotten_Errors(t *testing.T) {
	boom := errors.New("database is locked")

	t.Run("list fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockInsightStore(ctrl)
		s, _ := New(source, cfg)
		source.EXPECT().ListAll(gomock.Any()).Return(nil, boom)

		_, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: 5})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("mark fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockInsightStore(ctrl)
		s, _ := New(source, cfg)
		source.EXPECT().ListAll(gomock.Any()).Return([]storage.InsightRecord{{ID: 1, Importance: 1, CreatedAt: daysAgo(9)}}, nil)
		source.EXPECT().MarkRecalled(gomock.Any(), []int64{1}, now).Return(boom)

		_, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: 5})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nothing to surface skips marking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockInsightStore(ctrl)
		s, _ := New(source, cfg)
		source.EXPECT().ListAll(gomock.Any()).Return([]storage.InsightRecord{}, nil)

		got, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: 5})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("negative max", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s, _ := New(mocks.NewMockInsightStore(ctrl), cfg)
		_, err := s.SurfaceForgotten(context.Background(), now, Query{MaxResults: -1})
		assert.Error(t, err)
	})
}
