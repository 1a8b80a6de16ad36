// File: cmd/kodoctl/app.go
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"kodoctl/internal/archive"
	"kodoctl/internal/config"
	"kodoctl/internal/provider/factory"
	"kodoctl/internal/provider/registry"
	"kodoctl/internal/service"
	"kodoctl/internal/ui/prompt"
	"kodoctl/pkg/formatter"
	"kodoctl/pkg/storage"

	"github.com/spf13/afero"
)

// appContainer holds all the shared dependencies for the application
type appContainer struct {
	Config          *config.Config
	ConfigManager   *config.ConfigManager
	ProviderFactory *factory.Factory
	ObjectService   *service.ObjectService
	ObjectFormatter *formatter.ObjectFormatter
	Prompter        prompt.Prompter
	Fs              afero.Fs
	Logger          *slog.Logger
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	providerFactory := factory.NewFactory(cfg, logger)
	objectService := service.NewObjectService(providerFactory, fs, http.DefaultClient, cfg.Download.Expiry, logger)

	return &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		ProviderFactory: providerFactory,
		ObjectService:   objectService,
		ObjectFormatter: formatter.NewObjectFormatter(),
		Prompter:        prompt.NewStandardPrompter(os.Stdin, os.Stderr),
		Fs:              fs,
		Logger:          logger,
	}, nil
}

// Builds the request target for providerName using the credentials loaded at startup
func (a *appContainer) target(providerName string) (service.Target, error) {
	name, err := resolveProvider(providerName, a.Config.Provider, a.ProviderFactory)
	if err != nil {
		return service.Target{}, err
	}
	return service.Target{
		Provider: name,
		Credentials: storage.Credentials{
			AccessKey: a.Config.Credentials.AccessKey,
			SecretKey: a.Config.Credentials.SecretKey,
		},
	}, nil
}

func (a *appContainer) compressor(name string) (archive.Compressor, error) {
	if name == "" {
		name = a.Config.Archive.Compressor
	}
	switch strings.ToLower(name) {
	case "tar":
		return archive.NewExecCompressor("tar", a.Config.Archive.AcceptedExitCodes, a.Logger), nil
	case "native":
		return archive.NewNativeCompressor(a.Fs, a.Logger), nil
	default:
		return nil, fmt.Errorf("unknown compressor '%s'. Supported compressors are: tar, native", name)
	}
}

// Falls back to the configured provider and checks it is both supported and configured
func resolveProvider(requested, configured string, f *factory.Factory) (string, error) {
	name := strings.ToLower(strings.TrimSpace(requested))
	if name == "" {
		name = strings.ToLower(configured)
	}

	if !registry.IsSupported(name) {
		return "", fmt.Errorf("unsupported provider: %s. Supported providers are: %v", name, registry.GetSupportedProviders())
	}
	if !f.IsConfigured(name) {
		registration, _ := registry.GetRegistration(name)
		return "", fmt.Errorf("provider '%s' is not configured. Use 'kodoctl config set %s'", name, registration.ConfigHint)
	}
	return name, nil
}
