package reportstorage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherwise/internal/domain/report"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	data := []byte("WeatherWise Report\n")

	obj, err := store.Put(ctx, "reports/2025-03-01/a.csv", data, "text/csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), obj.Size)
	require.NotEmpty(t, obj.ETag)

	data[0] = 'X'

	body, err := store.Get(ctx, "reports/2025-03-01/a.csv")
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "WeatherWise Report\n", string(got))

	_, err = store.Get(ctx, "reports/missing.csv")
	require.ErrorIs(t, err, report.ErrObjectNotFound)
}

func TestTranslateGetError(t *testing.T) {
	missing := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}
	require.ErrorIs(t, translateGetError("reports/a.csv", missing), report.ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	err := translateGetError("reports/a.csv", denied)
	require.NotErrorIs(t, err, report.ErrObjectNotFound)
	require.Equal(t, "AccessDenied", minio.ToErrorResponse(err).Code)

	outage := errors.New("dial tcp: connection refused")
	require.NotErrorIs(t, translateGetError("reports/a.csv", outage), report.ErrObjectNotFound)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "account.r2.cloudflarestorage.com", sanitizeEndpoint("https://account.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "s3.amazonaws.com", sanitizeEndpoint("s3.amazonaws.com"))
}
