package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/soccerprediction/internal/logger"
)

// CABundleEnv names an environment variable holding the path of an extra PEM bundle
// to trust, for networks that intercept TLS
const CABundleEnv = "PODDS_CA_BUNDLE"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

// loadExtraCABundle returns the PEM bundle named by CABundleEnv, if any
func loadExtraCABundle() ([]byte, error) {
	path := os.Getenv(CABundleEnv)
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

// GetCustomHTTPClient returns the shared HTTP client, trusting the system roots plus
// any bundle named by PODDS_CA_BUNDLE
func GetCustomHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		rootCAs, err := x509.SystemCertPool()
		if err != nil {
			logger.Warn("Failed to get system cert pool", err)
			rootCAs = x509.NewCertPool()
		}

		extra, err := loadExtraCABundle()
		if err != nil {
			logger.Warn("Proceeding without extra CA bundle", err)
		} else if extra != nil {
			if ok := rootCAs.AppendCertsFromPEM(extra); !ok {
				logger.Warn("Failed to append extra CA bundle")
			} else {
				logger.Info("Added extra CA bundle to root CAs")
			}
		}

		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{RootCAs: rootCAs},
				Proxy:           http.ProxyFromEnvironment,
			},
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	})
	return httpClient
}

// GetHtml fetches the page at htmlUrl and returns the decoded body
func GetHtml(ctx context.Context, htmlUrl string) ([]byte, error) {
	return GetHtmlWithClient(ctx, GetCustomHTTPClient(), htmlUrl)
}

// GetHtmlWithClient is GetHtml with a caller supplied client
func GetHtmlWithClient(ctx context.Context, client *http.Client, htmlUrl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, htmlUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// look like a browser, some results sites refuse anything else
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Referer", "http://www.google.com/")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request for %s returned error status %d", htmlUrl, resp.StatusCode)
	}

	reader, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}

// decodeBody wraps body in a reader for the given Content-Encoding
func decodeBody(contentEncoding string, body io.ReadCloser) (io.ReadCloser, error) {
	switch contentEncoding {
	case "gzip":
		logger.Debug("Handling gzip compressed content")
		r, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		logger.Debug("Handling deflate compressed content")
		return flate.NewReader(body), nil
	case "br":
		logger.Debug("Handling brotli compressed content")
		return io.NopCloser(brotli.NewReader(body)), nil
	case "", "identity":
		return io.NopCloser(body), nil
	default:
		logger.Warn("Unknown content encoding:", contentEncoding)
		return io.NopCloser(body), nil
	}
}
