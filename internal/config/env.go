package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overlays recognized AUTOAPPLY_* variables onto cfg. Environment
// always wins over the file so packaged deployments can tune without editing
// the user config.
func ApplyEnv(cfg Config) Config {
	out := cfg

	if v := envInt("AUTOAPPLY_INTERVAL_SECONDS"); v > 0 {
		out.Run.IntervalSeconds = v
	}
	if v := envInt("AUTOAPPLY_NAV_TIMEOUT_SECONDS"); v > 0 {
		out.WebDriver.NavTimeoutSeconds = v
	}
	if v := envInt("AUTOAPPLY_VIEWPORT_W"); v > 0 {
		out.WebDriver.ViewportWidth = v
	}
	if v := envInt("AUTOAPPLY_VIEWPORT_H"); v > 0 {
		out.WebDriver.ViewportHeight = v
	}
	if v, ok := envBool("AUTOAPPLY_HEADLESS"); ok {
		out.WebDriver.Headless = v
	}
	if v := os.Getenv("AUTOAPPLY_DATA_DIR"); v != "" {
		out.App.DataDir = v
	}
	if v := os.Getenv("AUTOAPPLY_WEBDRIVER_URL"); v != "" {
		out.WebDriver.RemoteURL = v
	}
	if v := os.Getenv("AUTOAPPLY_CHROMEDRIVER"); v != "" {
		out.WebDriver.ChromeDriverPath = v
	}
	if v := os.Getenv("AUTOAPPLY_GEMINI_MODEL"); v != "" {
		out.Gemini.Model = v
	}

	return out
}

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) (val bool, ok bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
