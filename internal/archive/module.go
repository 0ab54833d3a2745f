package archive

import (
	"fmt"

	"github.com/szmslab/quickzip/config"
	"github.com/szmslab/quickzip/internal/logging"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewServiceFromConfig),
	fx.Provide(NewHandler),
)

// OptionsFromConfig turns the configured defaults into builder and extractor
// options. Unknown compression or encryption names are rejected here; the
// options themselves would ignore them.
func OptionsFromConfig(cfg *config.Config) ([]CompressOption, []ExtractOption, error) {
	compressOpts := []CompressOption{
		WithEncoding(cfg.Encoding),
		WithRootPath(cfg.RootPath),
	}

	if cfg.Compression != "" {
		level, err := ParseCompressionLevel(cfg.Compression)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		compressOpts = append(compressOpts, WithCompression(level))
	}

	if cfg.Encryption != "" {
		method, err := ParseEncryptionMethod(cfg.Encryption)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		compressOpts = append(compressOpts, WithEncryption(method, ""))
	}

	extractOpts := []ExtractOption{
		WithExtractEncoding(cfg.Encoding),
		WithAutoCreateDirectory(cfg.AutoCreateDirectory),
	}

	return compressOpts, extractOpts, nil
}

func NewServiceFromConfig(cfg *config.Config, logger *logging.Logger) (*Service, error) {
	compressOpts, extractOpts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewService(
		cfg.WorkspaceRoot,
		NewCompressor(compressOpts...),
		NewExtractor(extractOpts...),
		logger,
	), nil
}
