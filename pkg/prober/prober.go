// Package prober reads media metadata through ffprobe
package prober

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ofekfell/media-mcp-editor/pkg/schemas"
)

// Prober inspects media files with ffprobe
type Prober struct {
	binPath string
}

// New creates a prober. With an empty path the ffprobe binary is located
// on PATH and in the usual install locations.
func New(binPath string) *Prober {
	if binPath == "" {
		binPath = locateFFprobe()
	}
	return &Prober{binPath: binPath}
}

// Probe inspects a local media file and reports its container and
// stream properties
func (p *Prober) Probe(ctx context.Context, filePath string) (*schemas.MediaInfo, error) {
	if p.binPath == "" {
		return nil, fmt.Errorf("ffprobe not found in PATH")
	}

	cmd := exec.CommandContext(ctx, p.binPath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe execution error: %w", err)
	}

	var report probeReport
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return report.toMediaInfo(), nil
}

// locateFFprobe checks PATH first, then the usual install locations
func locateFFprobe() string {
	candidates := []string{
		"ffprobe",
		"/usr/local/bin/ffprobe",
		"/opt/homebrew/bin/ffprobe",
		"/usr/bin/ffprobe",
	}

	for _, path := range candidates {
		if _, err := exec.LookPath(path); err == nil {
			return path
		}
	}

	return ""
}

// probeReport mirrors the ffprobe JSON layout. ffprobe emits numbers as
// strings, so fields stay strings until conversion.
type probeReport struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type probeStream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	PixFmt     string `json:"pix_fmt"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

// toMediaInfo converts the raw report into the API's media description.
// Streams that are neither video nor audio (data, subtitles) are skipped.
func (r *probeReport) toMediaInfo() *schemas.MediaInfo {
	info := &schemas.MediaInfo{
		Format: schemas.FormatInfo{
			Filename: r.Format.Filename,
			Format:   r.Format.FormatName,
			Duration: seconds(r.Format.Duration),
			Size:     asInt64(r.Format.Size),
			BitRate:  asInt64(r.Format.BitRate),
		},
	}

	for _, stream := range r.Streams {
		switch stream.CodecType {
		case "video":
			info.VideoStreams = append(info.VideoStreams, schemas.VideoStream{
				Index:       stream.Index,
				Codec:       stream.CodecName,
				Width:       stream.Width,
				Height:      stream.Height,
				FrameRate:   frameRate(stream.RFrameRate),
				PixelFormat: stream.PixFmt,
				Duration:    seconds(stream.Duration),
			})
		case "audio":
			info.AudioStreams = append(info.AudioStreams, schemas.AudioStream{
				Index:      stream.Index,
				Codec:      stream.CodecName,
				SampleRate: asInt(stream.SampleRate),
				Channels:   stream.Channels,
				Duration:   seconds(stream.Duration),
			})
		}
	}

	return info
}

// seconds converts an ffprobe float-seconds string; malformed or missing
// values report as zero rather than failing the whole report
func seconds(s string) time.Duration {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

func asInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func asInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// frameRate evaluates ffprobe's rational rates ("30/1", "30000/1001")
func frameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}

	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}

	return n / d
}
