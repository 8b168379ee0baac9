package internal

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// YouTube downloads audio tracks from YouTube videos
type YouTube struct {
	verbose bool
}

// NewYouTube creates a new YouTube downloader
func NewYouTube(verbose bool) *YouTube {
	return &YouTube{verbose: verbose}
}

// IsYouTubeURL reports whether the argument looks like a YouTube link.
func IsYouTubeURL(arg string) bool {
	if !strings.HasPrefix(arg, "https://") && !strings.HasPrefix(arg, "http://") {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(arg))
	if err != nil {
		return false
	}
	switch u.Host {
	case "www.youtube.com", "youtube.com", "m.youtube.com", "youtu.be":
		return true
	}
	return false
}

// DownloadAudio fetches the best audio track of a video and returns its raw
// bytes plus the container extension. The downloaded bytes then flow
// through the same content-hash path as a local upload.
func (yt *YouTube) DownloadAudio(ctx context.Context, youtubeURL string) ([]byte, string, error) {
	if yt.verbose {
		fmt.Println("Downloading audio from YouTube...")
	}

	tmpDir, err := os.MkdirTemp("", "a2t-youtube-")
	if err != nil {
		return nil, "", fmt.Errorf("creating download directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove download directory %s: %v\n", tmpDir, err)
		}
	}()

	dl := ytdlp.New().
		Format("bestaudio[ext=webm]/bestaudio").
		NoPlaylist().
		Quiet().
		Output(filepath.Join(tmpDir, "%(id)s.%(ext)s"))

	result, err := dl.Run(ctx, youtubeURL)
	if err != nil {
		if yt.verbose && result != nil {
			fmt.Printf("Audio download error: %v\nStderr: %s\n", err, result.Stderr)
		}
		return nil, "", fmt.Errorf("yt-dlp failed: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, "", fmt.Errorf("reading download directory: %w", err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !IsAllowedExtension(ext) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		if err != nil {
			return nil, "", fmt.Errorf("reading downloaded audio: %w", err)
		}
		if yt.verbose {
			fmt.Printf("Downloaded %d bytes of %s audio\n", len(data), ext)
		}
		return data, ext, nil
	}

	return nil, "", fmt.Errorf("no usable audio file in YouTube download")
}
