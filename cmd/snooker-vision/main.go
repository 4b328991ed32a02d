package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
	"github.com/ironsheep/snooker-vision/internal/logging"
	"github.com/ironsheep/snooker-vision/internal/pipeline"
	"github.com/ironsheep/snooker-vision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// envConfig names the environment variable holding a config file path.
const envConfig = "SNOOKER_VISION_CONFIG"

func main() {
	logger := logging.FromEnv()
	defer logger.Sync() //nolint:errcheck

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("snooker-vision %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "config":
			if err := runConfig(args[1:]); err != nil {
				logger.Fatalw("config failed", "error", err)
			}
			return
		case "detect":
			if err := runDetect(args[1:], logger); err != nil {
				logger.Fatalw("detect failed", "error", err)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
			printUsage()
			os.Exit(2)
		}
	}

	p, err := newPipeline(logger)
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	server.Version = Version
	logger.Debugw("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
	if err := server.New(p, logger).Run(); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}

func printUsage() {
	fmt.Println("snooker-vision - snooker and pool ball detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snooker-vision                 Run the MCP server on stdin/stdout")
	fmt.Println("  snooker-vision detect <image>  Print detected balls as JSON")
	fmt.Println("  snooker-vision config [file]   Write the effective config as JSON")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=<file>      Load calibration from a JSON file\n", envConfig)
	fmt.Printf("  %s=debug    Enable debug logging\n", logging.EnvLevel)
}

// loadConfig returns the file config named by SNOOKER_VISION_CONFIG, or the
// defaults.
func loadConfig() (config.Config, error) {
	path := os.Getenv(envConfig)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newPipeline(logger *zap.SugaredLogger) (*pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, logger)
}

// runConfig writes the effective config to the named file, or to stdout.
func runConfig(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return cfg.Write(args[0])
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// runDetect prints the balls found in one image file.
func runDetect(args []string, logger *zap.SugaredLogger) error {
	if len(args) != 1 {
		return fmt.Errorf("detect takes exactly one image path")
	}

	p, err := newPipeline(logger)
	if err != nil {
		return err
	}

	img, err := imaging.NewImageCache().Load(args[0])
	if err != nil {
		return err
	}
	balls, err := p.Detect(img)
	if err != nil {
		return err
	}

	for _, b := range balls {
		logger.Infow("ball", "color", b.Color, "x", b.X, "y", b.Y, "r", b.R)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(balls)
}
