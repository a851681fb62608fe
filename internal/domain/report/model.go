package report

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// Request carries the dashboard state to export.
type Request struct {
	Location *weather.Location `json:"location"`
	Date     string            `json:"date"`
	Profile  string            `json:"profile"`
	Metrics  *weather.Metrics  `json:"metrics"`
	Format   Format            `json:"format"`
}

// Record is a complete, validated export subject.
type Record struct {
	Location weather.Location
	Date     time.Time
	Profile  weather.Profile
	Metrics  weather.Metrics
}

// Document is an encoded export ready to hand to a browser.
type Document struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

// Published describes a report uploaded for sharing.
type Published struct {
	Key      string `json:"key"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	ETag     string `json:"etag,omitempty"`
}

// StoredObject is the metadata returned by object storage.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// ErrObjectNotFound is returned (possibly wrapped) by ObjectStorage.Get when the key does not exist.
var ErrObjectNotFound = errors.New("report object not found")

// ObjectStorage persists published report blobs.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
