package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"vaultmind/internal/indexer/mocks"
	"vaultmind/internal/vault"
)

func TestNewPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockDocumentSource(ctrl)
	p := NewPipeline(source, nil, 10)

	if p == nil {
		t.Fatal("NewPipeline() returned nil")
	}
	if p.source != source {
		t.Error("NewPipeline() source not set correctly")
	}
	if p.cache == nil {
		t.Error("NewPipeline() should create a cache when none is given")
	}
}

func TestPipeline_Snapshot(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	docs := []vault.Document{
		{Path: "a.md", Text: "event sourcing projections", ModifiedAt: t0},
		{Path: "b.md", Text: "event sourcing snapshots", ModifiedAt: t0},
		{Path: "c.md", Text: "houseplants watering schedule", ModifiedAt: t0},
	}
	listErr := errors.New("disk unplugged")

	tests := []struct {
		name      string
		maxDocs   int
		mockSetup func(*mocks.MockDocumentSource)
		wantErr   error
		check     func(*testing.T, *Snapshot)
	}{
		{
			name:    "builds snapshot",
			maxDocs: 10,
			mockSetup: func(m *mocks.MockDocumentSource) {
				m.EXPECT().ListDocuments(gomock.Any()).Return(docs, nil)
			},
			check: func(t *testing.T, s *Snapshot) {
				if s.Index.N != 3 {
					t.Errorf("Snapshot() index N = %d, want 3", s.Index.N)
				}
				if !s.Rebuilt {
					t.Error("Snapshot() first call should rebuild")
				}
				doc, ok := s.Document("b.md")
				if !ok || doc.Text != "event sourcing snapshots" {
					t.Errorf("Snapshot().Document(b.md) = %+v, %v", doc, ok)
				}
				if _, ok := s.Document("missing.md"); ok {
					t.Error("Snapshot().Document() found a missing path")
				}
			},
		},
		{
			name:    "unlimited ceiling",
			maxDocs: 0,
			mockSetup: func(m *mocks.MockDocumentSource) {
				m.EXPECT().ListDocuments(gomock.Any()).Return(docs, nil)
			},
		},
		{
			name:    "corpus too large",
			maxDocs: 2,
			mockSetup: func(m *mocks.MockDocumentSource) {
				m.EXPECT().ListDocuments(gomock.Any()).Return(docs, nil)
			},
			wantErr: ErrCorpusTooLarge,
		},
		{
			name:    "source failure",
			maxDocs: 10,
			mockSetup: func(m *mocks.MockDocumentSource) {
				m.EXPECT().ListDocuments(gomock.Any()).Return(nil, listErr)
			},
			wantErr: listErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			source := mocks.NewMockDocumentSource(ctrl)
			tt.mockSetup(source)

			p := NewPipeline(source, NewCache(), tt.maxDocs)
			snap, err := p.Snapshot(context.Background())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Snapshot() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Snapshot() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, snap)
			}
		})
	}
}

func TestPipeline_SnapshotReusesIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := []vault.Document{{Path: "a.md", Text: "stable content", ModifiedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}}
	source := mocks.NewMockDocumentSource(ctrl)
	source.EXPECT().ListDocuments(gomock.Any()).Return(docs, nil).Times(2)

	p := NewPipeline(source, NewCache(), 0)

	first, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	second, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if second.Rebuilt {
		t.Error("Snapshot() rebuilt an index for unchanged documents")
	}
	if first.Index != second.Index {
		t.Error("Snapshot() should reuse the cached index")
	}
}
