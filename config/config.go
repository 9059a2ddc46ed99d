package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Firestore FirestoreConfig `yaml:"firestore"`
	AI        AIConfig        `yaml:"ai"`
	Limits    LimitsConfig    `yaml:"limits"`
	Users     []User          `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type FirestoreConfig struct {
	// ProjectID empty means the in-memory store is used instead of
	// Firestore (local development).
	ProjectID  string `yaml:"project_id"`
	Collection string `yaml:"collection"`
}

type AIConfig struct {
	ProjectID string `yaml:"project_id"`
	Region    string `yaml:"region"`
	Model     string `yaml:"model"`
}

type LimitsConfig struct {
	MaxUploadBytes        int64 `yaml:"max_upload_bytes"`
	ClassifyPrefixChars   int   `yaml:"classify_prefix_chars"`
	BlobTTLSeconds        int   `yaml:"blob_ttl_seconds"`
	CacheTTLSeconds       int   `yaml:"cache_ttl_seconds"`
	RequestTimeoutSeconds int   `yaml:"request_timeout_seconds"`
}

type User struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Premium  bool   `yaml:"premium"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Firestore.Collection == "" {
		cfg.Firestore.Collection = "contracts"
	}
	if cfg.AI.Region == "" {
		cfg.AI.Region = "us-central1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-1.5-pro"
	}
	if cfg.Limits.MaxUploadBytes == 0 {
		cfg.Limits.MaxUploadBytes = 10 << 20 // 10 MB
	}
	if cfg.Limits.ClassifyPrefixChars == 0 {
		cfg.Limits.ClassifyPrefixChars = 2000
	}
	if cfg.Limits.BlobTTLSeconds == 0 {
		cfg.Limits.BlobTTLSeconds = 3600
	}
	if cfg.Limits.CacheTTLSeconds == 0 {
		cfg.Limits.CacheTTLSeconds = 3600
	}
	if cfg.Limits.RequestTimeoutSeconds == 0 {
		cfg.Limits.RequestTimeoutSeconds = 120
	}

	// Analysis records are keyed by user ID, so IDs must be stable.
	// Users without an explicit ID fall back to their username.
	for i := range cfg.Users {
		if cfg.Users[i].ID == "" {
			cfg.Users[i].ID = cfg.Users[i].Username
		}
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
