package transport

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<html><body><table class=\"competitionRanking\"></table></body></html>"

func compress(t *testing.T, encoding string) []byte {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		w = fw
	case "br":
		w = brotli.NewWriter(&buf)
	default:
		return []byte(page)
	}
	_, err := w.Write([]byte(page))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestGetHtmlDecodesBodies(t *testing.T) {
	for _, encoding := range []string{"", "gzip", "deflate", "br"} {
		t.Run("encoding "+encoding, func(t *testing.T) {
			body := compress(t, encoding)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
				assert.Equal(t, "gzip, deflate, br", r.Header.Get("Accept-Encoding"))
				if encoding != "" {
					w.Header().Set("Content-Encoding", encoding)
				}
				w.Write(body)
			}))
			defer server.Close()

			data, err := GetHtmlWithClient(context.Background(), server.Client(), server.URL)
			require.NoError(t, err)
			assert.Equal(t, page, string(data))
		})
	}
}

func TestGetHtmlRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := GetHtmlWithClient(context.Background(), server.Client(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetCustomHTTPClientIsShared(t *testing.T) {
	assert.Same(t, GetCustomHTTPClient(), GetCustomHTTPClient())
}
