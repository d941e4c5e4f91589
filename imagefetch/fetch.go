// Package imagefetch resolves a link to image bytes and stores them under the
// upload directory. A link may point straight at an image or at a web page
// whose preview image is discovered from its metadata.
package imagefetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	pageTimeout  = 8 * time.Second
	imageTimeout = 10 * time.Second
	maxImageSize = 10 << 20
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

var imageExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif|svg|avif|ico)$`)

// SourceError means the link itself cannot yield an image. Message is safe to
// show to the user.
type SourceError struct {
	Message string
}

func (e *SourceError) Error() string { return e.Message }

type Fetcher struct {
	client *http.Client
	dir    string
	logger *slog.Logger
}

// New stores images below dir. A nil client means http.DefaultClient.
func New(dir string, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, dir: dir, logger: logger}
}

// Save downloads the image behind link into dir/folder and returns its public
// path, /uploads/<folder>/<file>.
func (f *Fetcher) Save(ctx context.Context, link, folder string) (string, error) {
	target, err := f.Resolve(ctx, link)
	if err != nil {
		return "", err
	}

	data, contentType, err := f.download(ctx, target, link)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(mustPath(target)))
	if !imageExt.MatchString(ext) {
		ext = extensionFor(contentType)
	}
	name := uuid.NewString() + ext

	dest := filepath.Join(f.dir, folder)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dest, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	f.logger.InfoContext(ctx, "image stored", "source", target, "folder", folder, "file", name, "bytes", len(data))
	return "/uploads/" + folder + "/" + name, nil
}

// Resolve returns the direct image URL for link. Page links are fetched and
// searched for JSON-LD, og:image and twitter:image in that order.
func (f *Fetcher) Resolve(ctx context.Context, link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &SourceError{Message: "Image link must be an http or https URL"}
	}
	if looksLikeImage(u) {
		return u.String(), nil
	}

	found, err := f.fromPage(ctx, u)
	if err != nil {
		return "", err
	}
	if found == "" || !looksLikeImage(mustParse(found)) {
		return "", &SourceError{Message: "The link provided is a webpage, and no preview image could be extracted."}
	}
	return found, nil
}

// fromPage returns "" when the page could not be read for reasons other than
// being blocked, so the caller reports a generic webpage error.
func (f *Fetcher) fromPage(ctx context.Context, page *url.URL) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WarnContext(ctx, "page fetch failed", "url", page.String(), "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return "", &SourceError{Message: "This website is blocking our image fetcher. Please try copying the direct image address instead."}
	}
	if resp.StatusCode >= 300 {
		f.logger.WarnContext(ctx, "page fetch failed", "url", page.String(), "status", resp.StatusCode)
		return "", nil
	}

	found, ok := FindImage(resp.Body, page)
	if !ok {
		return "", &SourceError{Message: "Could not find a valid image on the provided webpage link"}
	}
	return found, nil
}

func (f *Fetcher) download(ctx context.Context, target, referer string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &SourceError{Message: "Failed to fetch image from the provided link"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, "", &SourceError{Message: fmt.Sprintf("Image link returned status %d", resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", &SourceError{Message: "Fetched content is a webpage, not an image."}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", &SourceError{Message: "Image is larger than 10 MB"}
	}
	return data, mediaType, nil
}

func looksLikeImage(u *url.URL) bool {
	return u != nil && imageExt.MatchString(u.Path)
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	case "image/avif":
		return ".avif"
	default:
		return ".jpg"
	}
}

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

func mustPath(raw string) string {
	if u := mustParse(raw); u != nil {
		return u.Path
	}
	return ""
}
