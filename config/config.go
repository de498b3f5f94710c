// Package config 加载平台跳跃服务端的进程配置
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath 未显式指定配置文件时尝试的路径
	DefaultPath = "configs/platformer.yaml"
	// MaxTickRate server.tick_rate 的上限
	MaxTickRate = 1000
)

// Config 服务端完整配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	// Level 关卡文件路径，为空时使用内置关卡
	Level string `yaml:"level"`
}

// ServerConfig 网络与 Tick 循环相关配置
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	TickRate    int    `yaml:"tick_rate"`
	InputBuffer int    `yaml:"input_buffer"`
	SendQueue   int    `yaml:"send_queue"`
}

// LogConfig zap 日志与滚动文件配置
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default 返回内置默认配置
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8001",
			StaticDir:   "",
			TickRate:    60,
			InputBuffer: 1024,
			SendQueue:   64,
		},
		Log: LogConfig{
			File:       "app.log",
			Level:      "info",
			Console:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load 读取配置。查找顺序：path -> DefaultPath -> 默认值
// 文件中缺失的字段保留默认值
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(DefaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", DefaultPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", DefaultPath, err)
	}
	return cfg, nil
}

// LoadEnvFile 将 dotenv 文件中的变量载入进程环境，文件不存在不视为错误
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv 用 PLATFORMER_* 环境变量覆盖对应字段
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PLATFORMER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("PLATFORMER_STATIC_DIR"); ok {
		c.Server.StaticDir = v
	}
	if v, ok := lookup("PLATFORMER_LEVEL"); ok {
		c.Level = v
	}
	if v, ok := lookup("PLATFORMER_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup("PLATFORMER_LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("PLATFORMER_TICK_RATE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLATFORMER_TICK_RATE: %w", err)
		}
		c.Server.TickRate = n
	}
	return nil
}

// Validate 汇总报告所有非法字段
func (c Config) Validate() error {
	var err error
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr must not be empty"))
	}
	if c.Server.TickRate <= 0 || c.Server.TickRate > MaxTickRate {
		err = multierr.Append(err, fmt.Errorf("server.tick_rate must be in 1..%d, got %d", MaxTickRate, c.Server.TickRate))
	}
	if c.Server.InputBuffer <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.input_buffer must be positive, got %d", c.Server.InputBuffer))
	}
	if c.Server.SendQueue <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.send_queue must be positive, got %d", c.Server.SendQueue))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return err
}
