// Package booknlp drives the external BookNLP process and turns its output
// files into a contract document.
package booknlp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lbrandt/litnlp/core/contract"
	"github.com/lbrandt/litnlp/helper"
	"github.com/lbrandt/litnlp/model"
)

// Config holds the invocation settings for the external tool. Command may
// contain multiple words (interpreter plus script); it is split on spaces.
type Config struct {
	Command  string
	Model    string
	Pipeline string
	Version  string
}

// ConfigFromEnv reads the tool configuration from BOOKNLP_COMMAND,
// BOOKNLP_MODEL, BOOKNLP_PIPELINE and BOOKNLP_VERSION, with defaults for
// every unset variable.
func ConfigFromEnv() Config {
	return Config{
		Command:  envOr("BOOKNLP_COMMAND", "booknlp"),
		Model:    envOr("BOOKNLP_MODEL", "big"),
		Pipeline: envOr("BOOKNLP_PIPELINE", "entity,quote,coref"),
		Version:  envOr("BOOKNLP_VERSION", contract.DefaultToolVersion),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Runner executes the external tool and assembles its output. The tool
// loads multi-gigabyte models per invocation, so runs are serialized by
// mutex; callers queue instead of overcommitting memory.
type Runner struct {
	config  Config
	builder *contract.Builder
	log     *slog.Logger

	mu sync.Mutex
}

// NewRunner creates a Runner with the given configuration.
func NewRunner(config Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Command == "" {
		config.Command = "booknlp"
	}

	builder := contract.NewBuilder(logger)
	if config.Version != "" {
		builder.ToolVersion = config.Version
	}

	return &Runner{
		config:  config,
		builder: builder,
		log:     logger,
	}
}

// Process runs the external tool on text and returns the assembled contract.
// The tool works in a fresh temp directory that is removed afterwards; the
// context cancels the subprocess when it expires.
func (r *Runner) Process(ctx context.Context, text, documentID string) (*model.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workDir, err := os.MkdirTemp("", "booknlp-")
	if err != nil {
		return nil, helper.NewError("create work directory", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, documentID+".txt")
	if err := os.WriteFile(inputPath, []byte(text), 0600); err != nil {
		return nil, helper.NewError("write input file", err)
	}

	outputDir := filepath.Join(workDir, "output")
	if err := os.Mkdir(outputDir, 0700); err != nil {
		return nil, helper.NewError("create output directory", err)
	}

	words := strings.Fields(r.config.Command)
	args := append(words[1:],
		"--input", inputPath,
		"--output", outputDir,
		"--id", documentID,
		"--model", r.config.Model,
		"--pipeline", r.config.Pipeline,
	)

	r.log.Info("Running external tool",
		slog.String("document_id", documentID),
		slog.String("command", words[0]),
		slog.Int("text_length", len(text)),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, words[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, helper.NewError("run external tool", fmt.Errorf("%w: %s", err, tail(stderr.String(), 512)))
	}
	duration := time.Since(start)

	return r.builder.Build(outputDir, documentID, text, duration)
}

// tail returns at most the last n bytes of s; tool stack traces can be long
// and only the end names the actual failure.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
