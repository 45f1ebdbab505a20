package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus anything a careful
// operator should see before a run starts.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Search.BaseURL = strings.TrimSpace(out.Search.BaseURL)
	out.Search.DefaultQuery = strings.TrimSpace(out.Search.DefaultQuery)
	out.Search.DefaultLocation = strings.TrimSpace(out.Search.DefaultLocation)
	out.WebDriver.RemoteURL = strings.TrimSpace(out.WebDriver.RemoteURL)
	out.WebDriver.ChromeDriverPath = strings.TrimSpace(out.WebDriver.ChromeDriverPath)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Run.IntervalSeconds <= 0 {
		res.addErr("run.interval_seconds must be > 0")
	} else if out.Run.IntervalSeconds < 300 {
		res.addWarn("run.interval_seconds is very low (%d); frequent runs risk tripping the target site's abuse defenses.", out.Run.IntervalSeconds)
	}
	if out.Run.MaxPostings <= 0 {
		res.addErr("run.max_postings must be > 0")
	}
	if out.Run.AttemptSeconds <= 0 {
		res.addErr("run.attempt_seconds must be > 0")
	}
	if out.Run.PacingMinMs < 0 || out.Run.PacingMaxMs < out.Run.PacingMinMs {
		res.addErr("run.pacing_min_ms/pacing_max_ms must satisfy 0 <= min <= max")
	}

	if out.WebDriver.RemoteURL == "" && out.WebDriver.ChromeDriverPath == "" {
		res.addErr("webdriver.remote_url or webdriver.chromedriver_path is required")
	}
	if out.WebDriver.NavTimeoutSeconds <= 0 {
		res.addErr("webdriver.nav_timeout_seconds must be > 0")
	}
	if out.WebDriver.ViewportWidth <= 0 || out.WebDriver.ViewportHeight <= 0 {
		res.addErr("webdriver viewport dimensions must be > 0")
	}

	if out.Search.BaseURL == "" {
		res.addErr("search.base_url is required")
	}

	if strings.TrimSpace(out.Gemini.Model) == "" {
		res.addWarn("gemini.model is empty; the default model will be used.")
		out.Gemini.Model = Default().Gemini.Model
	}
	if out.Gemini.TimeoutSeconds <= 0 {
		out.Gemini.TimeoutSeconds = Default().Gemini.TimeoutSeconds
	}

	return out, res
}
