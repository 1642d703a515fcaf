package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// Installer checks for the tool and installs it with the package manager
type Installer struct {
	resolver PathResolver
	config   *domain.InstallerConfig
	messages domain.Messages
	lookPath func(string) (string, error)
	logger   *zap.Logger
}

// NewInstaller creates a new installer
func NewInstaller(resolver PathResolver, config *domain.InstallerConfig, messages domain.Messages, log *zap.Logger) *Installer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Installer{
		resolver: resolver,
		config:   config,
		messages: messages,
		lookPath: exec.LookPath,
		logger:   log,
	}
}

// WithLookPath replaces the PATH lookup (tests)
func (i *Installer) WithLookPath(lookPath func(string) (string, error)) *Installer {
	i.lookPath = lookPath
	return i
}

// CheckInstalled runs `<tool> --version`; any failure means not installed
func (i *Installer) CheckInstalled(ctx context.Context) bool {
	binary, err := i.resolver.Resolve()
	if err != nil {
		return false
	}

	if err := exec.CommandContext(ctx, binary, "--version").Run(); err != nil {
		i.logger.Debug("Tool version check failed",
			zap.String("binary", binary),
			zap.Error(err))
		return false
	}
	return true
}

// Install runs `<package manager> install <package>`.
// Without a package manager it reports whether the runtime itself is missing.
func (i *Installer) Install(ctx context.Context) error {
	pip, err := i.lookPath(i.config.PackageManager)
	if err != nil {
		if _, err := i.lookPath(i.config.Runtime); err != nil {
			return domain.NewError(domain.KindMissingRuntime, i.messages.RuntimeMissing, nil)
		}
		return domain.NewError(domain.KindMissingPackageManager, i.messages.PackageManagerMissing, nil)
	}

	i.logger.Info("Installing tool",
		zap.String("package_manager", pip),
		zap.String("package", i.config.Package))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, pip, "install", i.config.Package)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(strings.ToValidUTF8(stderr.String(), "\uFFFD"))
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			detail = err.Error()
		}
		msg := i.messages.InstallFailed
		if detail != "" {
			msg += ": " + detail
		}
		return domain.NewError(domain.KindInstallCommandFailed, msg,
			fmt.Errorf("%s install %s: %w", pip, i.config.Package, err))
	}

	i.logger.Info("Tool installed", zap.String("package", i.config.Package))
	return nil
}
