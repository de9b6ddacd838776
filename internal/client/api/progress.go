package api

import (
	"io"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// progressReader wraps an upload body and reports cumulative progress to fn
// as the HTTP client drains it.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	fn     ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.fn != nil {
			pct := 0
			if p.total > 0 {
				pct = int(p.loaded * 100 / p.total)
			}
			p.fn(models.UploadProgress{Loaded: p.loaded, Total: p.total, Percentage: pct})
		}
	}
	return n, err
}
