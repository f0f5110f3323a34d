package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/config"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

var configPath string

var RootCmd = &cobra.Command{
	Use:   "sentryd",
	Short: "Log threat-detection service for the CyberSentry dashboard",
	Long: `sentryd ingests uploaded log files of unknown structure, normalizes them
into discrete records, runs a signature-based threat detector over them, and
forwards a copy to one or more telemetry sinks. Completed analyses carry a
resolution workflow with history and re-analysis.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration to get logging settings
		// 加载配置以获取日志设置
		cfgPath := configPath
		if cfgPath == "" {
			cfgPath = config.DefaultConfigPath
		}

		globalCfg, err := config.LoadGlobalConfig(cfgPath)
		if err != nil {
			// If config fails to load, use default logging config (console only)
			logger.Init(logger.LoggingConfig{
				Enabled: true,
				Level:   "info",
			})
		} else {
			logger.Init(globalCfg.Logging)
		}

		// Inject logger into context
		// 将 Logger 注入 Context
		ctx := logger.WithContext(cmd.Context(), logger.Get(nil))
		cmd.SetContext(ctx)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(AnalyzeCmd)
	RootCmd.AddCommand(SinkCmd)
	RootCmd.AddCommand(VersionCmd)
}

// effectiveConfigPath resolves the --config flag against the default.
func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
