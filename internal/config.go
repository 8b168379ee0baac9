package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Boundary constants. WindowSeconds and MaxSegmentBytes are hard contracts
// of the chunking pipeline: the window bounds ffmpeg cost per cut and the
// byte cap is what the Whisper API accepts per request.
const (
	DefaultWindowSeconds = 5 * 60
	DefaultFragmentChars = 8000
	MaxSegmentBytes      = 25 << 20
	ProbeTimeout         = 30 * time.Second
	CutTimeout           = 5 * time.Minute
)

// AllowedExtensions is the accepted set of media container extensions.
var AllowedExtensions = []string{".mp3", ".wav", ".m4a", ".mp4", ".mov", ".avi", ".webm"}

// IsAllowedExtension reports whether ext (including the leading dot) is an
// accepted media container format.
func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Config holds application settings
type Config struct {
	// User configurable settings
	SummaryModel    string
	Language        string
	SummaryTimeout  time.Duration
	SlowNoticeAfter time.Duration
	Verbose         bool
	Quiet           bool
	OpenAIAPIKey    string
	ListenAddr      string

	// Pipeline limits. Fixed in production, shrunk in tests.
	WindowSeconds    int
	FragmentChars    int
	MaxSegmentBytes  int64
	SummaryMaxTokens int64

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
	TempDir   string

	// Artifact tree under DataDir, keyed by content identity
	OriginalsDir   string
	TranscriptsDir string
	SummariesDir   string
	ErrorLogPath   string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	ytdlp.MustInstall(context.Background(), nil)

	// A .env next to the binary is a convenient place for the API key
	_ = godotenv.Load()

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "audio2tekst")
	dataDir := filepath.Join(xdg.DataHome, "audio2tekst")
	cacheDir := filepath.Join(xdg.CacheHome, "audio2tekst")
	tempDir := filepath.Join(cacheDir, "segments")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("summary_model", "gpt-4o-mini")
	v.SetDefault("language", "pl")
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("slow_notice_after", 20*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("listen_addr", ":8501")

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("A2T")
	v.AutomaticEnv()

	// Special case for OpenAI API Key - check both Viper and direct env var
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		SummaryModel:    v.GetString("summary_model"),
		Language:        v.GetString("language"),
		SummaryTimeout:  v.GetDuration("summary_timeout"),
		SlowNoticeAfter: v.GetDuration("slow_notice_after"),
		Verbose:         v.GetBool("verbose"),
		Quiet:           v.GetBool("quiet"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		ListenAddr:      v.GetString("listen_addr"),

		// Pipeline limits
		WindowSeconds:    DefaultWindowSeconds,
		FragmentChars:    DefaultFragmentChars,
		MaxSegmentBytes:  MaxSegmentBytes,
		SummaryMaxTokens: 300,

		// Fixed XDG paths
		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
		TempDir:   tempDir,

		// Artifact tree
		OriginalsDir:   filepath.Join(dataDir, "originals"),
		TranscriptsDir: filepath.Join(dataDir, "transcripts"),
		SummariesDir:   filepath.Join(dataDir, "summaries"),
		ErrorLogPath:   filepath.Join(dataDir, "errors.log"),
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
