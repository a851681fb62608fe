package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/metrics"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Service exports and publishes analysis reports.
type Service interface {
	Export(ctx context.Context, req Request) (Document, error)
	Publish(ctx context.Context, req Request) (Published, error)
	Fetch(ctx context.Context, key string) (Document, error)
}

type service struct {
	storage ObjectStorage
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
	newID   func() string
}

// NewService wires up the report domain. A nil storage disables Publish.
func NewService(storage ObjectStorage, clock clockwork.Clock, m *metrics.Metrics, logger *slog.Logger) Service {
	if m == nil {
		m = metrics.NewForTesting()
	}
	return &service{
		storage: storage,
		clock:   clock,
		metrics: m,
		logger:  logger.With("component", "report.service"),
		newID:   func() string { return uuid.NewString() },
	}
}

func (s *service) Export(_ context.Context, req Request) (Document, error) {
	rec, err := toRecord(req)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	switch req.Format {
	case FormatCSV, "":
		content, err := EncodeCSV(Rows(rec, s.clock.Now()))
		if err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeInvalidInput, "failed to encode report", err)
		}
		doc = Document{FileName: FileName(rec, "csv"), ContentType: "text/csv", Content: content}
	case FormatText:
		doc = Document{FileName: FileName(rec, "txt"), ContentType: "text/plain; charset=utf-8", Content: []byte(ShareText(rec))}
	default:
		return Document{}, apperrors.Wrap(apperrors.CodeInvalidInput, "format must be csv or text", nil)
	}

	s.metrics.Reports.WithLabelValues(string(doc.format())).Inc()
	s.logger.Info("report exported", "file", doc.FileName, "bytes", len(doc.Content))
	return doc, nil
}

func (s *service) Publish(ctx context.Context, req Request) (Published, error) {
	if s.storage == nil {
		return Published{}, apperrors.Wrap(apperrors.CodeUnavailable, "report publishing is not configured", nil)
	}
	req.Format = FormatCSV
	doc, err := s.Export(ctx, req)
	if err != nil {
		return Published{}, err
	}

	key := fmt.Sprintf("reports/%s/%s.csv", s.clock.Now().UTC().Format(util.DateLayout), s.newID())
	obj, err := s.storage.Put(ctx, key, doc.Content, doc.ContentType)
	if err != nil {
		return Published{}, apperrors.Wrap(apperrors.CodeStorage, "failed to publish report", err)
	}
	s.logger.Info("report published", "key", obj.Key, "size", obj.Size)
	return Published{Key: obj.Key, FileName: doc.FileName, Size: obj.Size, ETag: obj.ETag}, nil
}

func (s *service) Fetch(ctx context.Context, key string) (Document, error) {
	if s.storage == nil {
		return Document{}, apperrors.Wrap(apperrors.CodeUnavailable, "report publishing is not configured", nil)
	}
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(key, "reports/") || strings.Contains(key, "..") {
		return Document{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid report key", nil)
	}
	body, err := s.storage.Get(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return Document{}, apperrors.Wrap(apperrors.CodeNotFound, "report not found", err)
	}
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load report", err)
	}
	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeStorage, "failed to read report", err)
	}
	return Document{FileName: path.Base(key), ContentType: "text/csv", Content: content}, nil
}

func (d Document) format() Format {
	if strings.HasPrefix(d.ContentType, "text/csv") {
		return FormatCSV
	}
	return FormatText
}

func toRecord(req Request) (Record, error) {
	if req.Location == nil || req.Metrics == nil || strings.TrimSpace(req.Date) == "" {
		return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, "location, date and metrics are required to export a report", nil)
	}
	date, err := util.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}
	return Record{
		Location: *req.Location,
		Date:     date,
		Profile:  weather.ParseProfile(req.Profile),
		Metrics:  *req.Metrics,
	}, nil
}
