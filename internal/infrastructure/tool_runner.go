package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

// PathResolver locates the tool binary
type PathResolver interface {
	Resolve() (string, error)
}

// ToolRunner implements domain.Downloader by spawning the external tool
type ToolRunner struct {
	resolver    PathResolver
	parser      domain.ReportParser
	messages    domain.Messages
	eventLogger *logger.MultiLogger // tool output and lifecycle; may be nil
	logger      *zap.Logger
}

// NewToolRunner creates a new tool runner
func NewToolRunner(resolver PathResolver, parser domain.ReportParser, messages domain.Messages, eventLogger *logger.MultiLogger, log *zap.Logger) *ToolRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ToolRunner{
		resolver:    resolver,
		parser:      parser,
		messages:    messages,
		eventLogger: eventLogger,
		logger:      log,
	}
}

// BuildDownloadArgs builds the argument vector of a download. The URL is always last.
func BuildDownloadArgs(req domain.DownloadRequest) []string {
	args := []string{"--debug", "--format", req.Format}
	if req.SuppressCaptions && domain.IsCaptionSite(req.URL) {
		args = append(args, "--no-caption")
	}
	if req.OutputPath != "" {
		args = append(args, "-o", req.OutputPath)
	}
	if req.CookiesPath != "" {
		args = append(args, "--cookies", req.CookiesPath)
	}
	return append(args, req.URL)
}

// BuildInfoArgs builds the argument vector of a metadata request
func BuildInfoArgs(modeFlag, url, cookiesPath string) []string {
	args := []string{modeFlag}
	if cookiesPath != "" {
		args = append(args, "--cookies", cookiesPath)
	}
	return append(args, url)
}

// PrepareDownload resolves the tool and builds the download command
func (r *ToolRunner) PrepareDownload(req domain.DownloadRequest) (domain.PreparedDownload, error) {
	binary, err := r.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	return &DownloadJob{
		binary: binary,
		args:   BuildDownloadArgs(req),
		url:    req.URL,
		runner: r,
	}, nil
}

// FetchInfo runs the tool in report mode and parses its stdout
func (r *ToolRunner) FetchInfo(ctx context.Context, url, cookiesPath string) (*domain.MediaInfo, error) {
	binary, err := r.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	args := BuildInfoArgs(r.parser.ModeFlag(), url, cookiesPath)
	r.logger.Debug("Fetching media info",
		zap.String("command", CommandLine(binary, args)))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(strings.ToValidUTF8(stderr.String(), "\uFFFD"))
			msg := r.messages.InfoFailed
			if detail != "" {
				msg += ": " + detail
			}
			return nil, domain.NewError(domain.KindNonZeroExit, msg, exitErr)
		}
		return nil, domain.NewError(domain.KindSpawnFailure, r.messages.InfoFailed,
			fmt.Errorf("failed to run %s: %w", binary, err))
	}

	return r.parser.Parse(stdout.Bytes())
}

// DownloadJob is one resolved download command
type DownloadJob struct {
	binary string
	args   []string
	url    string
	runner *ToolRunner
}

// Args returns the argument vector
func (j *DownloadJob) Args() []string {
	return append([]string(nil), j.args...)
}

// CommandLine returns the shell-quoted command
func (j *DownloadJob) CommandLine() string {
	return CommandLine(j.binary, j.args)
}

// Run spawns the tool with both output streams consumed concurrently and waits for it to exit.
// The readers are not joined; they finish when the child's end of each pipe closes.
func (j *DownloadJob) Run(emitter domain.EventEmitter) error {
	r := j.runner

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return domain.NewError(domain.KindSpawnFailure, r.messages.DownloadFailed,
			fmt.Errorf("failed to create stdout pipe: %w", err))
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return domain.NewError(domain.KindSpawnFailure, r.messages.DownloadFailed,
			fmt.Errorf("failed to create stderr pipe: %w", err))
	}

	if r.eventLogger != nil {
		r.eventLogger.LogDownloadCommand(j.CommandLine())
	}

	cmd := exec.Command(j.binary, j.args...)
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	start := time.Now()
	if err := cmd.Start(); err != nil {
		stdoutR.Close()
		stdoutW.Close()
		stderrR.Close()
		stderrW.Close()
		r.logDownloadEnd(j.url, start, err)
		return domain.NewError(domain.KindSpawnFailure, r.messages.DownloadFailed,
			fmt.Errorf("failed to start %s: %w", j.binary, err))
	}

	// the child holds its own copies
	stdoutW.Close()
	stderrW.Close()

	go NewStreamConsumer("stdout", emitter, r.onLine, r.logger).Consume(stdoutR)
	go NewStreamConsumer("stderr", emitter, r.onLine, r.logger).Consume(stderrR)

	err = cmd.Wait()
	r.logDownloadEnd(j.url, start, err)
	if err != nil {
		return domain.NewError(domain.KindNonZeroExit, r.messages.DownloadFailed, err)
	}
	return nil
}

func (r *ToolRunner) onLine(stream, line string) {
	if r.eventLogger != nil {
		r.eventLogger.LogDownloadLine(stream, line)
	}
}

func (r *ToolRunner) logDownloadEnd(url string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("url", url),
		zap.Duration("duration", time.Since(start)),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))
		r.logger.Warn("Download process failed", fields...)
		if r.eventLogger != nil {
			r.eventLogger.LogDownloadEvent("FAILED", fields...)
		}
		return
	}

	r.logger.Info("Download process finished", fields...)
	if r.eventLogger != nil {
		r.eventLogger.LogDownloadEvent("SUCCESS", fields...)
	}
}
