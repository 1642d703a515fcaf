package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yourusername/you-get-desk/api/handlers"
	"github.com/yourusername/you-get-desk/internal/domain"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "you-get-desk",
		Short: "you-get-desk CLI - front end for the you-get downloader",
		Long:  `A command-line front end that inspects and downloads media with you-get through the you-get-desk server.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ensureServer()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(dirCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logsCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func client() *apiClient {
	return newAPIClient(serverURL)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether you-get is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Installed bool `json:"installed"`
		}
		if err := client().get("/api/v1/tool/check", &result); err != nil {
			return err
		}
		if result.Installed {
			fmt.Println("you-get is installed")
		} else {
			fmt.Println("you-get is not installed (run: you-get-desk install)")
		}
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install you-get with pip",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Installing you-get...")
		if err := client().post("/api/v1/tool/install", nil, nil); err != nil {
			return err
		}
		fmt.Println("you-get installed successfully")
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show the title and formats available for a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cookies, _ := cmd.Flags().GetString("cookies")

		var info domain.MediaInfo
		if err := client().post("/api/v1/info", domain.InfoRequest{URL: args[0], CookiesPath: cookies}, &info); err != nil {
			return err
		}

		fmt.Printf("Title: %s\n\n", info.Title)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tQUALITY\tSIZE")
		for _, f := range info.Formats {
			quality := f.QualityLabel()
			if quality == "" {
				quality = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, quality, formatSize(f.SizeBytes))
		}
		return w.Flush()
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a URL in the chosen format, printing progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		cookies, _ := cmd.Flags().GetString("cookies")
		noCaption, _ := cmd.Flags().GetBool("no-caption")

		c := client()

		// listen before starting so no progress line is missed
		conn, err := c.dialWebSocket("/api/v1/events")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: progress unavailable: %v\n", err)
		} else {
			defer conn.Close()
			go func() {
				for {
					_, data, err := conn.ReadMessage()
					if err != nil {
						return
					}
					var msg struct {
						Event   string               `json:"event"`
						Payload domain.ProgressEvent `json:"payload"`
					}
					if json.Unmarshal(data, &msg) == nil && msg.Event == domain.ProgressEventName {
						fmt.Println(msg.Payload.Message)
					}
				}
			}()
		}

		req := domain.DownloadRequest{
			URL:              args[0],
			Format:           format,
			OutputPath:       output,
			CookiesPath:      cookies,
			SuppressCaptions: noCaption,
		}
		if err := c.post("/api/v1/downloads", req, nil); err != nil {
			return err
		}

		// let trailing progress lines drain
		time.Sleep(100 * time.Millisecond)
		fmt.Println("Download completed")
		return nil
	},
}

var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the default download directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Path string `json:"path"`
		}
		if err := client().get("/api/v1/download-dir", &result); err != nil {
			return err
		}
		fmt.Println(result.Path)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and whether a download is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		var health handlers.HealthResponse
		if err := client().get("/health", &health); err != nil {
			return err
		}
		fmt.Printf("Server:      %s (v%s)\n", health.Status, health.Version)
		fmt.Printf("Downloading: %v\n", health.Downloading)
		fmt.Printf("Listeners:   %d\n", health.Listeners)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		var result struct {
			Records []*domain.DownloadRecord `json:"records"`
			Stats   domain.DownloadStats     `json:"stats"`
		}
		if err := client().get("/api/v1/history?limit="+strconv.Itoa(limit), &result); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tFORMAT\tSTATUS\tCREATED")
		for _, r := range result.Records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				truncate(r.ID, 8),
				truncate(r.URL, 40),
				r.Format,
				r.Status,
				r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nTotal: %d  Completed: %d  Failed: %d  Processing: %d\n",
			result.Stats.Total, result.Stats.Completed, result.Stats.Failed, result.Stats.Processing)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [category]",
	Short: "View category logs (download, error)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := string(logger.CategoryDownload)
		if len(args) == 1 {
			category = args[0]
		}
		if !logger.ValidCategory(category) {
			return fmt.Errorf("invalid category %q", category)
		}

		search, _ := cmd.Flags().GetString("search")
		date, _ := cmd.Flags().GetString("date")
		limit, _ := cmd.Flags().GetInt("limit")
		follow, _ := cmd.Flags().GetBool("follow")

		if follow {
			return followLogs(category)
		}

		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		if date != "" {
			query.Set("date", date)
		}
		path := "/api/v1/logs/" + category
		if search != "" {
			path += "/search"
			query.Set("q", search)
		}

		var result struct {
			Entries []logger.LogEntry `json:"entries"`
		}
		if err := client().get(path+"?"+query.Encode(), &result); err != nil {
			return err
		}
		for _, entry := range result.Entries {
			printLogEntry(entry)
		}
		return nil
	},
}

// followLogs prints a category log as it grows until the server goes away
func followLogs(category string) error {
	conn, err := client().dialWebSocket("/api/v1/logs/stream?category=" + url.QueryEscape(category))
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		var entry logger.LogEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		printLogEntry(entry)
	}
}

func printLogEntry(entry logger.LogEntry) {
	if entry.Stream != "" {
		fmt.Printf("%s [%s] %s: %s\n", entry.Timestamp, entry.Level, entry.Stream, entry.Message)
		return
	}
	fmt.Printf("%s [%s] %s\n", entry.Timestamp, entry.Level, entry.Message)
}

func init() {
	infoCmd.Flags().StringP("cookies", "c", "", "Cookies file passed to you-get")
	downloadCmd.Flags().StringP("format", "f", "", "Format id from `info` (required)")
	downloadCmd.Flags().StringP("output", "o", "", "Output directory (default: you-get's working directory)")
	downloadCmd.Flags().StringP("cookies", "c", "", "Cookies file passed to you-get")
	downloadCmd.Flags().Bool("no-caption", false, "Skip captions on YouTube and Bilibili")
	downloadCmd.MarkFlagRequired("format")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of records")
	logsCmd.Flags().StringP("search", "s", "", "Only entries containing this text")
	logsCmd.Flags().StringP("date", "d", "", "Log date (YYYY-MM-DD, default today)")
	logsCmd.Flags().IntP("limit", "n", 100, "Number of entries")
	logsCmd.Flags().BoolP("follow", "F", false, "Stream new entries")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatSize renders bytes with binary units
func formatSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
