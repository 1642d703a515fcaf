package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	serverBinaryName   = "you-get-desk-server"
	defaultServerURL   = "http://localhost:8765"
	serverStartTimeout = 10 * time.Second
	serverPollInterval = 200 * time.Millisecond
)

// isServerRunning checks if the server is responding to health checks
func isServerRunning() bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// serverCandidates lists where the server binary may live, in lookup order after PATH
func serverCandidates(execDir, home string) []string {
	candidates := []string{}
	if execDir != "" {
		candidates = append(candidates, filepath.Join(execDir, serverBinaryName))
	}
	candidates = append(candidates,
		filepath.Join("/usr/local/bin", serverBinaryName),
		filepath.Join("/usr/bin", serverBinaryName),
	)
	if home != "" {
		candidates = append(candidates,
			filepath.Join(home, "go", "bin", serverBinaryName),
			filepath.Join(home, ".local", "bin", serverBinaryName),
		)
	}
	return candidates
}

// findServerBinary locates the server next to the CLI, on PATH or in common locations
func findServerBinary() (string, error) {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}
	home, _ := os.UserHomeDir()

	candidates := serverCandidates(execDir, home)
	if len(candidates) > 0 && execDir != "" {
		if _, err := os.Stat(candidates[0]); err == nil {
			return candidates[0], nil
		}
	}

	if serverPath, err := exec.LookPath(serverBinaryName); err == nil {
		return serverPath, nil
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s binary not found", serverBinaryName)
}

// startServerBackground starts the server as a detached background process
func startServerBackground() error {
	serverPath, err := findServerBinary()
	if err != nil {
		return err
	}

	// Start server as detached process
	cmd := exec.Command(serverPath)

	// Detach from parent process
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	// Set process group to detach from terminal
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Don't wait for the process - let it run in background
	go func() {
		cmd.Wait()
	}()

	return nil
}

// waitForServerReady polls the server until it's ready or timeout
func waitForServerReady() error {
	deadline := time.Now().Add(serverStartTimeout)

	for time.Now().Before(deadline) {
		if isServerRunning() {
			return nil
		}
		time.Sleep(serverPollInterval)
	}

	return fmt.Errorf("server did not start within %v", serverStartTimeout)
}

// ensureServerRunning checks if server is running, starts it if not
func ensureServerRunning() error {
	if isServerRunning() {
		return nil
	}

	fmt.Fprintln(os.Stderr, "Server not running, starting...")

	if err := startServerBackground(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServerReady(); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Server started successfully")
	return nil
}
