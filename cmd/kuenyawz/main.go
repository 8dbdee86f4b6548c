package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serverrun "github.com/ZeroFairy/kuenyawz-api/internal/cmd/server"
	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

var version = "dev"

func main() {
	// Respect KW_LOG_LEVEL for CLI output
	level := os.Getenv("KW_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "kuenyawz",
		Short: "KuenyaWZ backend CLI",
		Long:  "KuenyaWZ is a single-binary e-commerce backend. This CLI manages the server and the ID generator.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the KuenyaWZ server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			nodeID, _ := cmd.Flags().GetInt64("node-id")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(configFile)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if nodeID >= 0 {
				cfg.NodeID = nodeID
			}
			if logLevel != "" {
				_ = os.Setenv("KW_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("KW_LOG_FORMAT", logFormat)
			}
			if fsyncMode == "" {
				fsyncMode = cfg.Fsync
			}
			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("KW_CONFIG"), "Path to a JSON or YAML config file")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (default: OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default from config, :8080)")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never (default from config)")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms")
	serverStartCmd.Flags().Int64("node-id", -1, "Generator node ID in [0,1023]; overrides config and KW_NODE_ID")
	serverStartCmd.Flags().String("log-level", os.Getenv("KW_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("KW_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// id next / id inspect
	idCmd := &cobra.Command{Use: "id", Short: "ID generator operations"}
	idNextCmd := &cobra.Command{
		Use:   "next",
		Short: "Generate IDs locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeID, _ := cmd.Flags().GetInt64("node-id")
			count, _ := cmd.Flags().GetInt("count")
			gen, err := snowflake.New(nodeID)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				id, err := gen.Next()
				if err != nil {
					return err
				}
				fmt.Println(id)
			}
			return nil
		},
	}
	idNextCmd.Flags().Int64("node-id", 0, "Generator node ID in [0,1023]")
	idNextCmd.Flags().Int("count", 1, "How many IDs to generate")
	idInspectCmd := &cobra.Command{
		Use:   "inspect <id>",
		Short: "Decompose an ID into its bit fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			parts := snowflake.Decompose(id)
			fmt.Printf("id:        %d\n", id)
			fmt.Printf("time:      %s\n", parts.Time().UTC().Format(time.RFC3339Nano))
			fmt.Printf("node_id:   %d\n", parts.NodeID)
			fmt.Printf("sequence:  %d\n", parts.Sequence)
			return nil
		},
	}
	idCmd.AddCommand(idNextCmd)
	idCmd.AddCommand(idInspectCmd)
	rootCmd.AddCommand(idCmd)

	// version
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
