package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContentIdentity is the digest of a file's raw bytes, used as the primary
// key for the original media and every artifact derived from it.
type ContentIdentity string

// Identify computes the content identity of a byte blob. Identical bytes
// always map to the same identity.
func Identify(data []byte) ContentIdentity {
	sum := sha256.Sum256(data)
	return ContentIdentity(hex.EncodeToString(sum[:]))
}

// ArtifactPaths holds the three canonical locations derived from one
// content identity.
type ArtifactPaths struct {
	Original   string
	Transcript string
	Summary    string
}

// Store is the content-addressed artifact tree: originals, transcripts and
// summaries live in flat directories, named by content identity. There is
// no eviction; Clear removes everything.
type Store struct {
	originalsDir   string
	transcriptsDir string
	summariesDir   string
}

// NewStore creates a store over the configured artifact directories.
func NewStore(config *Config) *Store {
	return &Store{
		originalsDir:   config.OriginalsDir,
		transcriptsDir: config.TranscriptsDir,
		summariesDir:   config.SummariesDir,
	}
}

// EnsureLayout creates the artifact directories if needed.
func (s *Store) EnsureLayout() error {
	return EnsureDirs(s.originalsDir, s.transcriptsDir, s.summariesDir)
}

// ResolvePaths constructs the artifact paths for an identity. It does not
// touch the filesystem.
func (s *Store) ResolvePaths(id ContentIdentity, ext string) ArtifactPaths {
	return ArtifactPaths{
		Original:   filepath.Join(s.originalsDir, string(id)+strings.ToLower(ext)),
		Transcript: filepath.Join(s.transcriptsDir, string(id)+".txt"),
		Summary:    filepath.Join(s.summariesDir, string(id)+".txt"),
	}
}

// Materialize persists the original bytes at their canonical path if no
// file exists there yet, and returns that path. Re-uploading the same
// content is a no-op. An original stored under the same identity but a
// different extension is removed first, so a re-upload in another container
// format cannot leave two originals behind.
func (s *Store) Materialize(id ContentIdentity, data []byte, ext string) (string, error) {
	paths := s.ResolvePaths(id, ext)

	if FileExists(paths.Original) {
		return paths.Original, nil
	}

	s.removeStaleOriginals(id, filepath.Base(paths.Original))

	if err := os.WriteFile(paths.Original, data, 0644); err != nil {
		return "", fmt.Errorf("writing original media: %w", err)
	}

	return paths.Original, nil
}

// removeStaleOriginals deletes originals stored under the same identity but
// a different extension. Deletion failures are logged, never fatal.
func (s *Store) removeStaleOriginals(id ContentIdentity, keep string) {
	entries, err := os.ReadDir(s.originalsDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == keep || !strings.HasPrefix(name, string(id)+".") {
			continue
		}
		if err := os.Remove(filepath.Join(s.originalsDir, name)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove stale original %s: %v\n", name, err)
		}
	}
}

// FindOriginal locates the stored original for an identity, whatever its
// extension, and returns its path and extension.
func (s *Store) FindOriginal(id ContentIdentity) (string, string, error) {
	entries, err := os.ReadDir(s.originalsDir)
	if err != nil {
		return "", "", fmt.Errorf("reading originals: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, string(id)+".") {
			return filepath.Join(s.originalsDir, name), strings.ToLower(filepath.Ext(name)), nil
		}
	}

	return "", "", fmt.Errorf("no original stored for %s: %w", id, os.ErrNotExist)
}

// HasTranscript reports whether a transcript exists for the identity.
func (s *Store) HasTranscript(id ContentIdentity) bool {
	return FileExists(s.ResolvePaths(id, "").Transcript)
}

// SaveTranscript persists a transcript, replacing any previous one.
func (s *Store) SaveTranscript(id ContentIdentity, transcript string) error {
	path := s.ResolvePaths(id, "").Transcript
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// LoadTranscript reads the persisted transcript for the identity.
func (s *Store) LoadTranscript(id ContentIdentity) (string, error) {
	data, err := os.ReadFile(s.ResolvePaths(id, "").Transcript)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}

// SaveSummary persists a topic and summary as one two-part text blob,
// overwriting the prior result. No history is kept.
func (s *Store) SaveSummary(id ContentIdentity, topic, summary string) error {
	path := s.ResolvePaths(id, "").Summary
	blob := topic + "\n\n" + summary
	if err := os.WriteFile(path, []byte(blob), 0644); err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	return nil
}

// LoadSummary reads a persisted topic and summary pair.
func (s *Store) LoadSummary(id ContentIdentity) (topic, summary string, err error) {
	data, err := os.ReadFile(s.ResolvePaths(id, "").Summary)
	if err != nil {
		return "", "", fmt.Errorf("reading summary: %w", err)
	}

	parts := strings.SplitN(string(data), "\n\n", 2)
	topic = parts[0]
	if len(parts) > 1 {
		summary = parts[1]
	}
	return topic, summary, nil
}

// Clear removes every stored artifact. This is the explicit cache-clearing
// action; nothing else ever deletes transcripts or summaries.
func (s *Store) Clear() error {
	for _, dir := range []string{s.originalsDir, s.transcriptsDir, s.summariesDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("removing %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
