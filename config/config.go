package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type KubernetesConfig struct {
	KubeConfigPath string  `mapstructure:"kubeconfig_path"`
	InCluster      bool    `mapstructure:"in_cluster"`
	QPS            float32 `mapstructure:"qps"`
	Burst          int     `mapstructure:"burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

type StreamConfig struct {
	DefaultShell string `mapstructure:"default_shell"`
	TailLines    int64  `mapstructure:"tail_lines"`
}

// ClusterEntry names a cluster known to the console. The first reachable
// entry is the one this process is connected to; the rest show up as
// placeholders in the cluster listing.
type ClusterEntry struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
}

type ConsoleConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Kubernetes KubernetesConfig `mapstructure:"kubernetes"`
	Stream     StreamConfig     `mapstructure:"stream"`
	Clusters   []ClusterEntry   `mapstructure:"clusters"`
}

var consoleCfg *ConsoleConfig

func GetConfig() *ConsoleConfig {
	return consoleCfg
}

func InitConsoleConfig(configName string, configPath string) (ConsoleConfig, error) {
	var cfg ConsoleConfig
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	if configName == "" {
		configName = "console_config"
	}
	viper.AddConfigPath(GetAbsPath("config"))
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("CONSOLE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", ":8080")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.console", true)
	viper.SetDefault("kubernetes.qps", 20)
	viper.SetDefault("kubernetes.burst", 50)
	viper.SetDefault("kubernetes.timeout_seconds", 10)
	viper.SetDefault("stream.default_shell", "/bin/sh")
	viper.SetDefault("stream.tail_lines", 1000)

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return cfg, err
	}
	consoleCfg = &cfg
	return cfg, nil
}

// GetAbsPath resolves a path relative to the repository root so the config
// directory is found regardless of the working directory.
func GetAbsPath(rel string) string {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return rel
	}
	return filepath.Join(filepath.Dir(filepath.Dir(currentFile)), rel)
}
