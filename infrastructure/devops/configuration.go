package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"bluemark.com/bluemark/core/attendance"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type WebhookConfig struct {
	LoginURL    string `yaml:"login_url"`
	CheckInURL  string `yaml:"checkin_url"`
	CheckOutURL string `yaml:"checkout_url"`
}

type Config struct {
	Addr            string `yaml:"addr"`
	SigningSecret   string `yaml:"signing_secret"` // base64
	TokenTTLSeconds int64  `yaml:"token_ttl_seconds"`

	// CacheDir backs the file snapshot cache; CacheDSN switches to the
	// MySQL key-value cache when set.
	CacheDir string `yaml:"cache_dir"`
	CacheDSN string `yaml:"cache_dsn"`

	GeminiAPIKey string `yaml:"gemini_api_key"`

	Webhooks WebhookConfig              `yaml:"webhooks"`
	Company  attendance.CompanySettings `yaml:"company"`
}

var (
	once    sync.Once
	cfg     Config
	loadErr error
)

// LoadConfig resolves the service configuration once per process. Sources,
// in order: the SSM parameter named by BLUEMARK_CONFIG_SSM_PARAM, the YAML
// file named by BLUEMARK_CONFIG (default config.yaml), then environment
// overrides on top.
func LoadConfig(ctx context.Context) (Config, error) {
	once.Do(func() {
		cfg = defaults()

		if param := os.Getenv("BLUEMARK_CONFIG_SSM_PARAM"); param != "" {
			loadErr = loadFromSSM(ctx, param)
		} else {
			loadErr = loadFromFile()
		}
		if loadErr != nil {
			return
		}

		applyEnvOverrides()
	})

	return cfg, loadErr
}

func defaults() Config {
	return Config{
		Addr:            "0.0.0.0:8080",
		TokenTTLSeconds: 8 * 60 * 60,
		CacheDir:        ".cache",
		Company:         attendance.DefaultCompanySettings,
	}
}

func loadFromSSM(ctx context.Context, paramName string) error {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter: %w", err)
	}

	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &cfg); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}

func loadFromFile() error {
	path := os.Getenv("BLUEMARK_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && os.Getenv("BLUEMARK_CONFIG") == "" {
		// No config file is fine; defaults plus env cover local runs.
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}

func applyEnvOverrides() {
	set := func(target *string, env string) {
		if v := os.Getenv(env); v != "" {
			*target = v
		}
	}
	set(&cfg.Addr, "BLUEMARK_ADDR")
	set(&cfg.SigningSecret, "BLUEMARK_SIGNING_SECRET")
	set(&cfg.CacheDir, "BLUEMARK_CACHE_DIR")
	set(&cfg.CacheDSN, "BLUEMARK_CACHE_DSN")
	set(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	set(&cfg.Webhooks.LoginURL, "BLUEMARK_LOGIN_WEBHOOK")
	set(&cfg.Webhooks.CheckInURL, "BLUEMARK_CHECKIN_WEBHOOK")
	set(&cfg.Webhooks.CheckOutURL, "BLUEMARK_CHECKOUT_WEBHOOK")
}
