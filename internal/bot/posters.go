package bot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc/iter"
)

const maxImageSize = 5 << 20

var validMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// posterLoader downloads and validates images before they are uploaded, so
// one broken URL cannot fail a whole media group.
type posterLoader struct {
	client *http.Client
}

func newPosterLoader() *posterLoader {
	return &posterLoader{client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *posterLoader) load(ctx context.Context, url string) (tgbotapi.RequestFileData, error) {
	if url == "" {
		return nil, fmt.Errorf("empty url")
	}
	data, contentType, err := p.downloadAndValidateImage(ctx, url)
	if err != nil {
		return nil, err
	}
	return tgbotapi.FileBytes{
		Name:  "image" + getExtensionFromContentType(contentType),
		Bytes: data,
	}, nil
}

// loadAll fetches urls concurrently. The result keeps only valid images in
// their original order.
func (p *posterLoader) loadAll(ctx context.Context, urls []string) []tgbotapi.RequestFileData {
	files := iter.Map(urls, func(url *string) tgbotapi.RequestFileData {
		file, err := p.load(ctx, *url)
		if err != nil {
			slog.Warn("Failed to download image", "url", *url, "error", err)
			return nil
		}
		return file
	})

	valid := files[:0]
	for _, f := range files {
		if f != nil {
			valid = append(valid, f)
		}
	}
	return valid
}

func (p *posterLoader) downloadAndValidateImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http get failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	imgData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("read failed: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(imgData)
	}
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])

	if !validMimeTypes[contentType] {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	if len(imgData) < 512 {
		return nil, "", fmt.Errorf("image too small: %d bytes", len(imgData))
	}

	if _, _, err = image.DecodeConfig(bytes.NewReader(imgData)); err != nil {
		return nil, "", fmt.Errorf("invalid image format: %w", err)
	}

	return imgData, contentType, nil
}

func getExtensionFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
