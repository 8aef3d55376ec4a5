package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// fileReader implements compiler.URLReader: an `http(s)://` URL is
// fetched over the network, anything else is read as a local path.
type fileReader struct {
	client *http.Client
}

func newFileReader() *fileReader {
	return &fileReader{client: &http.Client{Timeout: 30 * time.Second}}
}

func (r *fileReader) Read(url string) (string, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := r.client.Get(url)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%s: status %s", url, resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	body, err := os.ReadFile(url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
