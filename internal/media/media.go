package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidURL is returned when a submitted URL is not a recognizable
// YouTube video URL.
var ErrInvalidURL = errors.New("invalid or unsupported video URL")

// Placeholders used when the downloader reports no value for a field.
const (
	PlaceholderTitle    = "Vídeo do YouTube"
	PlaceholderUploader = "Canal desconhecido"
	PlaceholderDate     = "Data desconhecida"
	PlaceholderDuration = "0:00"
)

var youtubeURL = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com/(watch\?|shorts/|live/|embed/)|youtu\.be/).+`)

// ValidateURL accepts only YouTube video URLs (youtube.com or youtu.be).
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || !youtubeURL.MatchString(raw) {
		return ErrInvalidURL
	}
	return nil
}

// Buffer is an in-memory media payload with its declared MIME type.
type Buffer struct {
	Data []byte
	MIME string
}

func (b Buffer) Len() int { return len(b.Data) }

// VideoMetadata is display-oriented information about a video, derived once
// per URL and never mutated afterwards.
type VideoMetadata struct {
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
	Uploader    string `json:"uploader"`
	UploadDate  string `json:"upload_date"`
	Description string `json:"description,omitempty"`
	ViewCount   int64  `json:"view_count,omitempty"`
}

// TranscriptionResult holds the transcript of a single pipeline run.
type TranscriptionResult struct {
	Text     string `json:"transcription"`
	Language string `json:"language"`
	Model    string `json:"model"`
	// Duration is an approximation based on the size of the audio payload.
	Duration int `json:"duration"`
}

// SummaryResult holds the summary and derived metadata of a single run.
type SummaryResult struct {
	Summary     string   `json:"summary"`
	WordCount   int      `json:"wordCount"`
	KeyTopics   []string `json:"keyTopics"`
	Sentiment   string   `json:"sentiment"`
	SummaryType string   `json:"summaryType"`
}

// FormatDuration renders a duration in seconds as H:MM:SS, or M:SS when
// under an hour. Non-positive values degrade to the placeholder.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return PlaceholderDuration
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatUploadDate converts the downloader's 8-digit YYYYMMDD form into
// DD/MM/YYYY. Anything unparsable degrades to the placeholder.
func FormatUploadDate(raw string) string {
	t, err := time.Parse("20060102", strings.TrimSpace(raw))
	if err != nil {
		return PlaceholderDate
	}
	return t.Format("02/01/2006")
}
