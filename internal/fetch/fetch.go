/*
Package fetch downloads font files which are not present locally.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.fetch'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fetch")
}

// Download fetches url with an HTTP GET and stores the response body at dest.
// It returns the number of bytes written. A response status other than 200 is
// an error. If client is nil, http.DefaultClient is used.
//
// The body is streamed to a temporary file next to dest, which is renamed to
// dest once the download is complete. An existing file at dest is replaced.
func Download(ctx context.Context, client *http.Client, url, dest string) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	tracer().Infof("downloading %s", url)
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("downloading %s: HTTP %d: %s", url, resp.StatusCode, resp.Status)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	tracer().Debugf("stored %d bytes at %s", n, dest)
	return n, nil
}
