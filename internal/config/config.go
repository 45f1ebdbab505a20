package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Run struct {
		IntervalSeconds int `yaml:"interval_seconds"`
		MaxPostings     int `yaml:"max_postings"`
		PacingMinMs     int `yaml:"pacing_min_ms"`
		PacingMaxMs     int `yaml:"pacing_max_ms"`
		AttemptSeconds  int `yaml:"attempt_seconds"`
	} `yaml:"run"`

	WebDriver struct {
		// RemoteURL points at a running WebDriver hub. When empty, a local
		// chromedriver service is started from ChromeDriverPath.
		RemoteURL         string `yaml:"remote_url"`
		ChromeDriverPath  string `yaml:"chromedriver_path"`
		Port              int    `yaml:"port"`
		Headless          bool   `yaml:"headless"`
		NavTimeoutSeconds int    `yaml:"nav_timeout_seconds"`
		ViewportWidth     int    `yaml:"viewport_width"`
		ViewportHeight    int    `yaml:"viewport_height"`
	} `yaml:"webdriver"`

	Search struct {
		BaseURL         string `yaml:"base_url"`
		DefaultQuery    string `yaml:"default_query"`
		DefaultLocation string `yaml:"default_location"`
	} `yaml:"search"`

	Gemini struct {
		Model          string `yaml:"model"`
		KeyringAccount string `yaml:"keyring_account"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"gemini"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.App.DataDir = "."
	cfg.Run.IntervalSeconds = 3600
	cfg.Run.MaxPostings = 10
	cfg.Run.PacingMinMs = 2000
	cfg.Run.PacingMaxMs = 5000
	cfg.Run.AttemptSeconds = 60
	cfg.WebDriver.ChromeDriverPath = "chromedriver"
	cfg.WebDriver.Port = 9515
	cfg.WebDriver.Headless = true
	cfg.WebDriver.NavTimeoutSeconds = 30
	cfg.WebDriver.ViewportWidth = 1366
	cfg.WebDriver.ViewportHeight = 900
	cfg.Search.BaseURL = "https://www.dice.com/jobs"
	cfg.Search.DefaultQuery = "software engineer"
	cfg.Search.DefaultLocation = "United States"
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Gemini.TimeoutSeconds = 20
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
