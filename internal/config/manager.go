// File: internal/config/manager.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Overrides the config file location
const EnvConfigPath = "KODOCTL_CONFIG"

const maskedValue = "****"

var validate = validator.New()

type valueParser func(string) (interface{}, error)

// Keys that may be written with 'kodoctl config set'. Credentials are deliberately absent
var settableKeys = map[string]valueParser{
	"provider":                    parseLowerString,
	"kodo.use_https":              parseBool,
	"kodo.region":                 parseString,
	"s3.endpoint":                 parseString,
	"s3.region":                   parseString,
	"s3.path_style":               parseBool,
	"minio.endpoint":              parseString,
	"minio.region":                parseString,
	"minio.secure":                parseBool,
	"gcs.endpoint":                parseString,
	"download.expiry":             parseDuration,
	"archive.compressor":          parseLowerString,
	"archive.accepted_exit_codes": parseIntList,
	"log.level":                   parseLowerString,
}

// ConfigManager layers defaults, the YAML config file and the environment
type ConfigManager struct {
	v          *viper.Viper
	configPath string
}

func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	// A .env file in the working directory never overrides variables already exported
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return newConfigManager(configPath)
}

func newConfigManager(configPath string) (*ConfigManager, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("kodo.use_https", true)
	v.SetDefault("kodo.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.secure", true)
	v.SetDefault("gcs.endpoint", "")
	v.SetDefault("download.expiry", DefaultDownloadExpiry)
	v.SetDefault("archive.compressor", DefaultCompressor)
	v.SetDefault("archive.accepted_exit_codes", DefaultAcceptedExitCodes)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("credentials.access_key", EnvAccessKey); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", EnvAccessKey, err)
	}
	if err := v.BindEnv("credentials.secret_key", EnvSecretKey); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", EnvSecretKey, err)
	}

	m := &ConfigManager{v: v, configPath: configPath}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func getConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName), nil
}

func (m *ConfigManager) ConfigPath() string {
	return m.configPath
}

func (m *ConfigManager) reload() error {
	if _, err := os.Stat(m.configPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := m.v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", m.configPath, err)
	}
	return nil
}

// Decodes and validates the effective configuration
func (m *ConfigManager) LoadConfig() (*Config, error) {
	var cfg Config
	err := m.v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToIntSliceHook(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("error decoding configuration: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (m *ConfigManager) SetValue(key, value string) error {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, "credentials.") {
		return fmt.Errorf("credentials are not stored in the config file; export %s and %s instead", EnvAccessKey, EnvSecretKey)
	}

	parse, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s. Supported keys: %s", key, strings.Join(SupportedKeys(), ", "))
	}

	parsed, err := parse(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	settings, err := m.readFile()
	if err != nil {
		return err
	}
	setNested(settings, key, parsed)

	if err := m.writeFile(settings); err != nil {
		return err
	}
	return m.reload()
}

// Returns the effective value of key, masking secrets
func (m *ConfigManager) GetValue(key string) (interface{}, bool) {
	key = strings.ToLower(key)
	if !m.v.IsSet(key) {
		return nil, false
	}
	if key == "credentials.secret_key" {
		if m.v.GetString(key) == "" {
			return "", true
		}
		return maskedValue, true
	}
	return m.v.Get(key), true
}

// Removes key from the config file. Returns false if the file did not set it
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)

	settings, err := m.readFile()
	if err != nil {
		return false, err
	}
	if !deleteNested(settings, key) {
		return false, nil
	}

	if err := m.writeFile(settings); err != nil {
		return false, err
	}
	if err := m.reload(); err != nil {
		return false, err
	}
	return true, nil
}

// Returns every effective setting as a nested map, with secrets masked
func (m *ConfigManager) GetAllSettings() map[string]interface{} {
	settings := m.v.AllSettings()
	if creds, ok := settings["credentials"].(map[string]interface{}); ok {
		if s, ok := creds["secret_key"].(string); ok && s != "" {
			creds["secret_key"] = maskedValue
		}
	}
	return settings
}

// Decodes "0,1" into []int. Keys with a slice default reach the decoder as a
// one-element []interface{} when set from the environment, so that form is split too
func stringToIntSliceHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf([]int{}) {
			return data, nil
		}

		var raw string
		switch v := data.(type) {
		case string:
			raw = v
		case []string:
			if len(v) != 1 {
				return data, nil
			}
			raw = v[0]
		case []interface{}:
			if len(v) != 1 {
				return data, nil
			}
			s, ok := v[0].(string)
			if !ok {
				return data, nil
			}
			raw = s
		default:
			return data, nil
		}
		return parseIntList(raw)
	}
}

func SupportedKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *ConfigManager) readFile() (map[string]interface{}, error) {
	data, err := os.ReadFile(m.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	settings := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return settings, nil
}

func (m *ConfigManager) writeFile(settings map[string]interface{}) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func setNested(settings map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	current := settings
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func deleteNested(settings map[string]interface{}, key string) bool {
	parts := strings.Split(key, ".")
	current := settings
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}

	last := parts[len(parts)-1]
	if _, exists := current[last]; !exists {
		return false
	}
	delete(current, last)

	// Drop a section left empty so the file stays tidy
	if len(parts) == 2 && len(current) == 0 {
		delete(settings, parts[0])
	}
	return true
}

func parseString(s string) (interface{}, error) {
	return strings.TrimSpace(s), nil
}

func parseLowerString(s string) (interface{}, error) {
	return strings.ToLower(strings.TrimSpace(s)), nil
}

func parseBool(s string) (interface{}, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

func parseDuration(s string) (interface{}, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d.String(), nil
}

func parseIntList(s string) (interface{}, error) {
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an integer", part)
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("at least one exit code is required")
	}
	return codes, nil
}
