package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	// BaseURL is the public origin used when building verification links.
	BaseURL string `yaml:"base_url"`

	JWT struct {
		Secret string `yaml:"secret"`
		// TTLHours is the lifetime of issued session tokens.
		TTLHours int `yaml:"ttl_hours"`
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`

	Storage struct {
		// TmpDir receives raw multipart uploads before processing.
		TmpDir string `yaml:"tmp_dir"`
		// AvatarDir holds processed avatars, served under /avatars.
		AvatarDir string `yaml:"avatar_dir"`
	} `yaml:"storage"`
}

// Load reads configuration from a YAML file, letting environment
// variables override it. When DATABASE_URL is set the file is skipped
// entirely (test and container deployments configure via env only).
func Load() *Config {
	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port, _ = strconv.Atoi(v)
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		cfg.Email.SMTPPort, _ = strconv.Atoi(v)
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Email.SMTPUsername = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Email.FromEmail = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.JWT.TTLHours == 0 {
		cfg.JWT.TTLHours = 20
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	if cfg.Storage.TmpDir == "" {
		cfg.Storage.TmpDir = "tmp"
	}
	if cfg.Storage.AvatarDir == "" {
		cfg.Storage.AvatarDir = "public/avatars"
	}
}
