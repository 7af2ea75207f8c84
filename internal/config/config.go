package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Admin         AdminConfig      `mapstructure:"admin"`
	Controller    ControllerConfig `mapstructure:"controller"`
	DatabasePath  string           `mapstructure:"database_path"`
	SessionSecret string           `mapstructure:"session_secret"`
	SetupComplete bool             `mapstructure:"setup_complete"`
}

type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// ControllerConfig describes the EasyMesh controller's NBAPI endpoint.
type ControllerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	RootDMPath     string `mapstructure:"root_dm_path"`
	EventLogging   bool   `mapstructure:"event_logging"`
}

func LoadOrInitialize(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("database_path", "easymesh_monitor.db")
	viper.SetDefault("controller.port", 8080)
	viper.SetDefault("controller.username", "admin")
	viper.SetDefault("controller.poll_interval_ms", 1000)
	viper.SetDefault("controller.root_dm_path", "Device.WiFi.DataElements.")
	viper.SetDefault("controller.event_logging", true)
	viper.SetDefault("setup_complete", false)

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create new config with defaults
		cfg := &Config{
			DatabasePath:  viper.GetString("database_path"),
			SessionSecret: generateSessionSecret(),
			Controller: ControllerConfig{
				Port:           viper.GetInt("controller.port"),
				Username:       viper.GetString("controller.username"),
				PollIntervalMs: viper.GetInt("controller.poll_interval_ms"),
				RootDMPath:     viper.GetString("controller.root_dm_path"),
				EventLogging:   viper.GetBool("controller.event_logging"),
			},
			SetupComplete: false,
		}

		// Save initial config
		if err := SaveConfig(configPath, cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	}

	// Read existing config
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure session secret exists
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = generateSessionSecret()
		if err := SaveConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func SaveConfig(configPath string, cfg *Config) error {
	viper.Set("admin.username", cfg.Admin.Username)
	viper.Set("admin.password_hash", cfg.Admin.PasswordHash)

	viper.Set("controller.host", cfg.Controller.Host)
	viper.Set("controller.port", cfg.Controller.Port)
	viper.Set("controller.username", cfg.Controller.Username)
	viper.Set("controller.password", cfg.Controller.Password)
	viper.Set("controller.poll_interval_ms", cfg.Controller.PollIntervalMs)
	viper.Set("controller.root_dm_path", cfg.Controller.RootDMPath)
	viper.Set("controller.event_logging", cfg.Controller.EventLogging)

	viper.Set("database_path", cfg.DatabasePath)
	viper.Set("session_secret", cfg.SessionSecret)
	viper.Set("setup_complete", cfg.SetupComplete)

	return viper.WriteConfigAs(configPath)
}

func (c *Config) IsConfigured() bool {
	return c.SetupComplete && c.Admin.Username != "" && c.Controller.Host != ""
}

func (c *Config) SetAdminPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Admin.PasswordHash = string(hash)
	return nil
}

func (c *Config) VerifyAdminPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(c.Admin.PasswordHash), []byte(password))
	return err == nil
}

func generateSessionSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// This should never happen with crypto/rand
		panic(err)
	}
	return base64.URLEncoding.EncodeToString(b)
}
