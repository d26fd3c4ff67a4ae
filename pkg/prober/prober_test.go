package prober

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestReportToMediaInfo(t *testing.T) {
	raw := `{
		"format": {
			"filename": "clip.mp4",
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "10.000000",
			"size": "1048576",
			"bit_rate": "838860"
		},
		"streams": [
			{
				"index": 0,
				"codec_type": "video",
				"codec_name": "h264",
				"width": 1920,
				"height": 1080,
				"r_frame_rate": "30/1",
				"pix_fmt": "yuv420p",
				"duration": "10.000000"
			},
			{
				"index": 1,
				"codec_type": "audio",
				"codec_name": "aac",
				"sample_rate": "48000",
				"channels": 2,
				"duration": "10.000000"
			},
			{
				"index": 2,
				"codec_type": "subtitle",
				"codec_name": "mov_text"
			}
		]
	}`

	var report probeReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	info := report.toMediaInfo()

	if info.Format.Filename != "clip.mp4" {
		t.Errorf("Expected filename clip.mp4, got %q", info.Format.Filename)
	}
	if info.Format.Duration != 10*time.Second {
		t.Errorf("Expected duration 10s, got %v", info.Format.Duration)
	}
	if info.Format.Size != 1048576 {
		t.Errorf("Expected size 1048576, got %d", info.Format.Size)
	}
	if info.Format.BitRate != 838860 {
		t.Errorf("Expected bit rate 838860, got %d", info.Format.BitRate)
	}

	if len(info.VideoStreams) != 1 {
		t.Fatalf("Expected 1 video stream, got %d", len(info.VideoStreams))
	}
	video := info.VideoStreams[0]
	if video.Codec != "h264" || video.Width != 1920 || video.Height != 1080 {
		t.Errorf("Unexpected video stream: %+v", video)
	}
	if video.FrameRate != 30.0 {
		t.Errorf("Expected frame rate 30.0, got %f", video.FrameRate)
	}
	if video.PixelFormat != "yuv420p" {
		t.Errorf("Expected pixel format yuv420p, got %q", video.PixelFormat)
	}

	if len(info.AudioStreams) != 1 {
		t.Fatalf("Expected 1 audio stream, got %d", len(info.AudioStreams))
	}
	audio := info.AudioStreams[0]
	if audio.Codec != "aac" || audio.SampleRate != 48000 || audio.Channels != 2 {
		t.Errorf("Unexpected audio stream: %+v", audio)
	}
}

func TestFrameRateForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30.0},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 25.0},
		{"", 0},
		{"30/0", 0},
		{"x/y", 0},
	}

	for _, tc := range cases {
		got := frameRate(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("frameRate(%q) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestSecondsForms(t *testing.T) {
	if got := seconds("1.500000"); got != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s, got %v", got)
	}
	if got := seconds(""); got != 0 {
		t.Errorf("Expected 0 for empty duration, got %v", got)
	}
	if got := seconds("N/A"); got != 0 {
		t.Errorf("Expected 0 for unparseable duration, got %v", got)
	}
}

func TestProbeLocalFile(t *testing.T) {
	requireFFprobe(t)

	p := New("")
	info, err := p.Probe(context.Background(), makeTestClip(t))
	if err != nil {
		t.Fatalf("Probe() failed: %v", err)
	}

	if info.Format.Duration <= 0 {
		t.Error("Expected positive duration")
	}
	if len(info.VideoStreams) == 0 && len(info.AudioStreams) == 0 {
		t.Error("Expected at least one stream")
	}
}

func TestProbeMissingFile(t *testing.T) {
	requireFFprobe(t)

	p := New("")
	if _, err := p.Probe(context.Background(), "/nonexistent/clip.mp4"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestProbeCancelledContext(t *testing.T) {
	requireFFprobe(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New("")
	if _, err := p.Probe(ctx, makeTestClip(t)); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestProbeWithoutBinary(t *testing.T) {
	p := &Prober{binPath: ""}
	if _, err := p.Probe(context.Background(), "clip.mp4"); err == nil {
		t.Error("Expected error when ffprobe is unavailable")
	}
}

// Test helpers

func requireFFprobe(t *testing.T) {
	t.Helper()
	if New("").binPath == "" {
		t.Skip("ffprobe not available")
	}
}

// makeTestClip renders a one second black clip with silent audio
func makeTestClip(t *testing.T) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi",
		"-i", "color=black:s=320x240:r=1:d=1",
		"-f", "lavfi",
		"-i", "anullsrc=r=48000:cl=stereo:d=1",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-t", "1",
		"-y",
		out,
	)
	if err := cmd.Run(); err != nil {
		t.Skip("ffmpeg not available")
	}

	return out
}
