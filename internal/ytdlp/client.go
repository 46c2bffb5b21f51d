// Package ytdlp wraps the yt-dlp command-line downloader behind an
// in-process contract for metadata lookup and single-video download.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tubescribe/internal/logger"
	"tubescribe/internal/media"
	"tubescribe/internal/staging"
	"tubescribe/pkg/executor"
)

var (
	// ErrToolUnavailable means the downloader binary could not be launched.
	ErrToolUnavailable = errors.New("yt-dlp is not installed or not on PATH")
	// ErrMalformedOutput means the downloader ran but its JSON was unusable.
	ErrMalformedOutput = errors.New("yt-dlp produced malformed metadata output")
	// ErrOutputMissing means the downloader reported success but wrote no file.
	ErrOutputMissing = errors.New("yt-dlp reported success but produced no file")
)

// MaxDownloadSize is enforced by the tool itself via --max-filesize.
const MaxDownloadSize = "500m"

type Client struct {
	bin   string
	exec  executor.Executor
	store *staging.Store
	log   logger.Logger
}

func New(bin string, exec executor.Executor, store *staging.Store, log logger.Logger) *Client {
	return &Client{bin: bin, exec: exec, store: store, log: log}
}

// rawInfo mirrors the subset of yt-dlp's -J dump that the service uses.
type rawInfo struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	UploadDate  string  `json:"upload_date"`
	Description string  `json:"description"`
	ViewCount   int64   `json:"view_count"`
}

// FetchMetadata runs the downloader in metadata-only mode and reformats the
// result for display. Missing fields degrade to placeholders.
func (c *Client) FetchMetadata(ctx context.Context, url string) (media.VideoMetadata, error) {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return media.VideoMetadata{}, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	c.log.Info(ctx, "Fetching video metadata: %s", url)

	res, err := c.exec.Execute(ctx, c.bin, "-J", "--no-playlist", url)
	if err != nil {
		return media.VideoMetadata{}, fmt.Errorf("fetch metadata: %w", err)
	}

	var info rawInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return media.VideoMetadata{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	meta := media.VideoMetadata{
		Title:       info.Title,
		Duration:    media.FormatDuration(info.Duration),
		Thumbnail:   info.Thumbnail,
		Uploader:    info.Uploader,
		UploadDate:  media.FormatUploadDate(info.UploadDate),
		Description: info.Description,
		ViewCount:   info.ViewCount,
	}
	if meta.Title == "" {
		meta.Title = media.PlaceholderTitle
	}
	if meta.Uploader == "" {
		meta.Uploader = media.PlaceholderUploader
	}

	return meta, nil
}

// FetchVideo downloads a single video (playlist expansion disabled,
// best-available MP4 preferred) into a scoped staging directory, reads it
// fully into memory, and removes the staging directory on every path.
func (c *Client) FetchVideo(ctx context.Context, url string) (media.Buffer, error) {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return media.Buffer{}, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	dir, err := c.store.CreateDir("download")
	if err != nil {
		return media.Buffer{}, err
	}
	defer c.store.Remove(ctx, dir)

	outPath := filepath.Join(dir, "video.mp4")

	c.log.Info(ctx, "Downloading video: %s", url)

	args := []string{
		"--no-playlist",
		"-f", "best[ext=mp4]/best",
		"--max-filesize", MaxDownloadSize,
		"-o", outPath,
		url,
	}
	if _, err := c.exec.Execute(ctx, c.bin, args...); err != nil {
		return media.Buffer{}, fmt.Errorf("download video: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		// yt-dlp exits zero when --max-filesize skips the download, so a
		// missing file is a distinct failure from a non-zero exit.
		return media.Buffer{}, ErrOutputMissing
	}

	c.log.Info(ctx, "Download complete: %s (%d bytes)", url, len(data))
	return media.Buffer{Data: data, MIME: "video/mp4"}, nil
}

// SanitizeFilename strips characters that are invalid in attachment names
// and caps the length, mirroring how output files are named after titles.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"<", "_", ">", "_", ":", "_", "\"", "_",
		"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
	)
	name = replacer.Replace(name)
	if len(name) > 200 {
		name = name[:200]
	}
	return name
}
