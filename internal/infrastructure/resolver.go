package infrastructure

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// ExecutableResolver locates the external tool binary.
// It is consulted on every invocation so a fresh installation is picked up without restart.
type ExecutableResolver struct {
	name         string
	useBareName  bool     // tool is expected on the search path
	candidates   []string // probed in order, first existing wins
	notFoundText string

	homeDir func() (string, error)
	stat    func(string) (os.FileInfo, error)
}

// DefaultCandidates returns the ordered probe list for a tool on the given OS.
// On Windows the tool is run by bare name and no list is needed.
func DefaultCandidates(goos, name string) (useBareName bool, candidates []string) {
	if goos == "windows" {
		return true, nil
	}
	return false, []string{
		"/usr/local/bin/" + name,    // Homebrew (Intel Mac)
		"/opt/homebrew/bin/" + name, // Homebrew (Apple Silicon)
		"~/.local/bin/" + name,      // pip install --user
		"~/.pyenv/shims/" + name,    // pyenv
		"/usr/bin/" + name,
		"/bin/" + name,
	}
}

// NewExecutableResolver creates a resolver for the current platform.
// A non-empty explicit path is probed before the default candidates.
func NewExecutableResolver(config *domain.ToolConfig, messages domain.Messages) *ExecutableResolver {
	useBareName, candidates := DefaultCandidates(runtime.GOOS, config.Name)
	if config.Binary != "" {
		useBareName = false
		candidates = append([]string{config.Binary}, candidates...)
	}
	return &ExecutableResolver{
		name:         config.Name,
		useBareName:  useBareName,
		candidates:   candidates,
		notFoundText: messages.ToolNotInstalled,
		homeDir:      os.UserHomeDir,
		stat:         os.Stat,
	}
}

// NewCandidateResolver creates a resolver that probes exactly the given candidates
func NewCandidateResolver(candidates []string, notFoundText string) *ExecutableResolver {
	return &ExecutableResolver{
		candidates:   candidates,
		notFoundText: notFoundText,
		homeDir:      os.UserHomeDir,
		stat:         os.Stat,
	}
}

// WithFileSystem replaces the home directory lookup and stat function (tests)
func (r *ExecutableResolver) WithFileSystem(homeDir func() (string, error), stat func(string) (os.FileInfo, error)) *ExecutableResolver {
	r.homeDir = homeDir
	r.stat = stat
	return r
}

// Candidates returns the ordered probe list
func (r *ExecutableResolver) Candidates() []string {
	out := make([]string, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Resolve returns the path of the first existing candidate
func (r *ExecutableResolver) Resolve() (string, error) {
	if r.useBareName {
		return r.name, nil
	}

	for _, candidate := range r.candidates {
		path := r.expandHome(candidate)
		if path == "" {
			continue
		}
		if _, err := r.stat(path); err == nil {
			return path, nil
		}
	}

	return "", domain.NewError(domain.KindExecutableNotFound, r.notFoundText, nil)
}

// expandHome expands a leading ~ to the home directory.
// Returns "" when the home directory is needed but unknown.
func (r *ExecutableResolver) expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := r.homeDir()
	if err != nil || home == "" {
		return ""
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
