package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Enhanced images come back as inline bytes; uploads arrive as data URLs or
// remote URLs. 20MB covers the largest listing photos we accept.
const maxImageBytes = 20 << 20

var errUnsupportedImageRef = errors.New("unsupported image reference")

// resolveImagePayload turns an image reference into raw bytes plus a mime
// type. Data URLs are decoded in place; http(s) URLs are fetched.
func resolveImagePayload(ctx context.Context, client *http.Client, imageURL string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(imageURL, "data:"):
		return decodeDataURL(imageURL)
	case strings.HasPrefix(imageURL, "http://"), strings.HasPrefix(imageURL, "https://"):
		return fetchRemoteImage(ctx, client, imageURL)
	default:
		return nil, "", errUnsupportedImageRef
	}
}

func decodeDataURL(dataURL string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data URL")
	}

	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		mimeType = "image/png"
	}
	if !strings.Contains(meta, "base64") {
		return nil, "", errors.New("data URL must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", errors.New("image too large")
	}
	return data, mimeType, nil
}

func fetchRemoteImage(ctx context.Context, client *http.Client, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", errors.New("image too large")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
