package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/domain/repository"
	"github.com/guardline/backend/pkg/apperr"
)

// ReportService accepts incident reports and serves the moderator views.
type ReportService struct {
	Store   repository.ReportStore
	Blobs   BlobUploader
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewReportService(store repository.ReportStore, blobs BlobUploader, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ReportService {
	return &ReportService{Store: store, Blobs: blobs, ES: es, ESIndex: esIndex, Logger: logger}
}

type SubmitReportInput struct {
	ReporterID  string
	Category    string
	Description string
	Location    string
	Attachments []Blob
}

// Submit stores an incident report. ReporterID may be empty for anonymous
// submissions. Attachments are uploaded first; the document stores only
// their references. Indexing for moderator search is best effort.
func (s *ReportService) Submit(ctx context.Context, in SubmitReportInput) (*entity.Report, error) {
	now := time.Now().UTC()
	r := &entity.Report{
		ID:          uuid.NewString(),
		ReporterID:  in.ReporterID,
		Category:    in.Category,
		Description: in.Description,
		Location:    in.Location,
		Status:      entity.ReportReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, a := range in.Attachments {
		if s.Blobs == nil || len(a.Bytes) == 0 {
			continue
		}
		ext := a.Ext
		if ext == "" {
			ext = ".bin"
		}
		objectPath := path.Join("reports", r.ID, uuid.NewString()+ext)
		url, err := s.Blobs.Upload(ctx, objectPath, a.ContentType, bytes.NewReader(a.Bytes))
		if err != nil {
			s.Logger.WithError(err).WithField("report_id", r.ID).WithField("attachment", i).Error("attachment upload failed")
			return nil, apperr.ErrUpstream
		}
		r.Attachments = append(r.Attachments, url)
	}

	if err := s.Store.Insert(ctx, r); err != nil {
		return nil, err
	}
	s.indexReport(ctx, r)
	return r, nil
}

func (s *ReportService) List(ctx context.Context, limit int) ([]*entity.Report, error) {
	return s.Store.List(ctx, limit)
}

func (s *ReportService) UpdateStatus(ctx context.Context, id, status string) error {
	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if r, err := s.Store.GetByID(ctx, id); err == nil {
		s.indexReport(ctx, r)
	}
	return nil
}

func (s *ReportService) indexReport(ctx context.Context, r *entity.Report) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          r.ID,
		"category":    r.Category,
		"description": r.Description,
		"location":    r.Location,
		"status":      r.Status,
		"created_at":  r.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: r.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("report_id", r.ID).Warn("report index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("report_id", r.ID).Warn("report index response error")
	}
}

// Search runs a multi_match query over the report index.
func (s *ReportService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"category^2", "description", "location"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
