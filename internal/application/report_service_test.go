package application

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/domain/repository"
	"github.com/guardline/backend/pkg/apperr"
)

type fakeReportStore struct {
	mu      sync.Mutex
	reports map[string]*entity.Report
	order   []string
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: map[string]*entity.Report{}}
}

func (f *fakeReportStore) Insert(_ context.Context, r *entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reports[r.ID] = &cp
	f.order = append(f.order, r.ID)
	return nil
}

func (f *fakeReportStore) GetByID(_ context.Context, id string) (*entity.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reports[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReportStore) List(_ context.Context, limit int) ([]*entity.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Report, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		cp := *f.reports[f.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeReportStore) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	return nil
}

var _ repository.ReportStore = (*fakeReportStore)(nil)

func newReportService(store *fakeReportStore) *ReportService {
	// No ES client: indexing and search short-circuit.
	return NewReportService(store, fakeBlobs{}, nil, "", quietLogger())
}

func TestSubmitReportStoresAttachments(t *testing.T) {
	store := newFakeReportStore()
	svc := newReportService(store)

	r, err := svc.Submit(context.Background(), SubmitReportInput{
		ReporterID:  "user-1",
		Category:    "physical",
		Description: "incident at school",
		Location:    "Bandung",
		Attachments: []Blob{
			{Bytes: []byte("img"), ContentType: "image/jpeg", Ext: ".jpg"},
			{Bytes: []byte("doc"), ContentType: "application/pdf", Ext: ".pdf"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReportReceived, r.Status)
	require.Len(t, r.Attachments, 2)
	assert.True(t, strings.HasPrefix(r.Attachments[0], "blob://reports/"+r.ID+"/"))

	got, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Attachments, got.Attachments)
}

func TestSubmitReportAnonymous(t *testing.T) {
	svc := newReportService(newFakeReportStore())

	r, err := svc.Submit(context.Background(), SubmitReportInput{
		Category:    "neglect",
		Description: "anonymous tip",
	})
	require.NoError(t, err)
	assert.Empty(t, r.ReporterID)
}

func TestListReportsNewestFirst(t *testing.T) {
	store := newFakeReportStore()
	svc := newReportService(store)

	first, err := svc.Submit(context.Background(), SubmitReportInput{Category: "physical", Description: "one"})
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), SubmitReportInput{Category: "verbal", Description: "two"})
	require.NoError(t, err)

	got, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestUpdateReportStatus(t *testing.T) {
	store := newFakeReportStore()
	svc := newReportService(store)

	r, err := svc.Submit(context.Background(), SubmitReportInput{Category: "physical", Description: "one"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), r.ID, entity.ReportUnderReview))
	got, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportUnderReview, got.Status)

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), "missing", entity.ReportClosed), apperr.ErrNotFound)
}

func TestSearchWithoutIndexReturnsEmpty(t *testing.T) {
	svc := newReportService(newFakeReportStore())

	hits, err := svc.Search(context.Background(), "school", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
