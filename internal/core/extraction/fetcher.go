package extraction

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/objectclient"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// Fetcher downloads an attachment's raw bytes.
type Fetcher interface {
	Fetch(ctx context.Context, att models.Attachment) ([]byte, error)
}

// HTTPFetcher fetches attachments with a plain HTTP GET. When an S3 client is
// configured and the attachment lives on its bucket, the download goes
// through S3 instead so private objects resolve.
type HTTPFetcher struct {
	client *http.Client
	s3     *objectclient.S3Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(s3 *objectclient.S3Client) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
		s3:     s3,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, att models.Attachment) ([]byte, error) {
	if f.s3 != nil {
		if key, ok := f.s3.HostsURL(att.URL); ok {
			return f.s3.GetFile(ctx, key)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", att.URL, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
