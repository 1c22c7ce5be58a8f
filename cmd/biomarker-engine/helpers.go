// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biomarker-engine/internal/bkb"
	"github.com/pdiddy/biomarker-engine/pkg/types"
)

const defaultUserAgent = "biomarker-engine/0.1"

// Settings resolve in precedence order: an explicitly set flag wins, then
// the config file / environment via viper, then the built-in default. Flags
// register with zero defaults so an untouched flag falls through to viper.

func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func intSetting(cmd *cobra.Command, flag, key string, fallback int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func durationSetting(cmd *cobra.Command, flag, key string, fallback time.Duration) time.Duration {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return fallback
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return viper.GetBool(key)
}

// addAPIFlags registers the flags shared by every command that talks to the
// BiomarkerKB API.
func addAPIFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", "", "BiomarkerKB API root (default "+bkb.DefaultBaseURL+")")
	cmd.Flags().String("api-key", "", "API key sent as X-Api-Key (default: biomarkerkb-api-key secret)")
	cmd.Flags().String("user-agent", "", "User-Agent header (default "+defaultUserAgent+")")
	cmd.Flags().Duration("timeout", 0, "search request timeout (default 1m)")
	cmd.Flags().Duration("download-timeout", 0, "list download timeout (default 5m)")
	cmd.Flags().Int("max-retries", 0, "retry budget for rate-limited requests (default 5)")
}

// apiConfig builds the API client configuration from flags, config file and
// loaded secrets. Zero values mean the client applies its own defaults.
func apiConfig(cmd *cobra.Command) types.APIConfig {
	var cfg types.APIConfig
	cfg.BaseURL = stringSetting(cmd, "base-url", "api.base_url", "")
	cfg.APIKey = secretDefault("biomarkerkb-api-key", stringSetting(cmd, "api-key", "api.api_key", ""))
	cfg.UserAgent = stringSetting(cmd, "user-agent", "api.user_agent", defaultUserAgent)
	cfg.Timeout = durationSetting(cmd, "timeout", "api.timeout", 0)
	cfg.DownloadTimeout = durationSetting(cmd, "download-timeout", "api.download_timeout", 0)
	cfg.MaxRetries = intSetting(cmd, "max-retries", "api.max_retries", 0)
	return cfg
}

// addFetchFlags registers the result-window flags shared by the commands
// that download record lists.
func addFetchFlags(cmd *cobra.Command, sizeDefault int) {
	cmd.Flags().Int("size", 0, fmt.Sprintf("initial result window, doubled whenever a download fills it (default %d)", sizeDefault))
	cmd.Flags().Int("max-attempts", 0, "downloads allowed per query while escalating the window (default 4)")
}

// fetchConfig builds the fetch configuration for a command, taking the
// per-command initial window size from sizeKey or sizeDefault.
func fetchConfig(cmd *cobra.Command, sizeKey string, sizeDefault int) types.FetchConfig {
	var cfg types.FetchConfig
	cfg.APIConfig = apiConfig(cmd)
	cfg.InitialSize = intSetting(cmd, "size", sizeKey, sizeDefault)
	cfg.MaxAttempts = intSetting(cmd, "max-attempts", "fetch.max_attempts", 0)
	return cfg
}
