package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

// GetDataDir returns the data directory under workdir, used for the
// embedded sqlite database file.
func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "shopd",
		Location: "Asia/Manila",
		Workdir:  "/var/shopd",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-shopd-1816-9e48-ad1cdefe3d72",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Name:     "shop",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/shopd/shopd.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		if p, err := strconv.ParseInt(v, 10, 64); err == nil {
			*val = int(p)
		}
	}
}

// LoadConfig reads the YAML configuration file and applies
// SHOPD_* environment overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	appcfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg := new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err == nil {
				appcfg = cfg
			}
		}
	}

	setEnvValue("SHOPD_SYSTEM_WORKDIR", &appcfg.System.Workdir)
	setEnvBoolValue("SHOPD_SYSTEM_DEBUG", &appcfg.System.Debug)

	setEnvValue("SHOPD_WEB_HOST", &appcfg.Web.Host)
	setEnvValue("SHOPD_WEB_SECRET", &appcfg.Web.Secret)
	setEnvIntValue("SHOPD_WEB_PORT", &appcfg.Web.Port)

	setEnvValue("SHOPD_DB_TYPE", &appcfg.Database.Type)
	setEnvValue("SHOPD_DB_HOST", &appcfg.Database.Host)
	setEnvValue("SHOPD_DB_NAME", &appcfg.Database.Name)
	setEnvValue("SHOPD_DB_USER", &appcfg.Database.User)
	setEnvValue("SHOPD_DB_PWD", &appcfg.Database.Passwd)
	setEnvIntValue("SHOPD_DB_PORT", &appcfg.Database.Port)
	setEnvBoolValue("SHOPD_DB_DEBUG", &appcfg.Database.Debug)

	setEnvValue("SHOPD_LOGGER_MODE", &appcfg.Logger.Mode)
	setEnvBoolValue("SHOPD_LOGGER_FILE_ENABLE", &appcfg.Logger.FileEnable)

	return appcfg
}
