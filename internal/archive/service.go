package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/szmslab/quickzip/internal/logging"
	"github.com/szmslab/quickzip/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// progressLogInterval is how many entries pass between debug progress lines.
const progressLogInterval = 100

// Service runs compress, extract and list requests against configured defaults.
// When workspaceRoot is set every request path is resolved below it.
type Service struct {
	compressor    *Compressor
	extractor     *Extractor
	workspaceRoot string
	logger        *logging.Logger
}

func NewService(workspaceRoot string, compressor *Compressor, extractor *Extractor, logger *logging.Logger) *Service {
	if compressor == nil {
		compressor = NewCompressor()
	}
	if extractor == nil {
		extractor = NewExtractor()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		compressor:    compressor,
		extractor:     extractor,
		workspaceRoot: workspaceRoot,
		logger:        logger,
	}
}

func (s *Service) resolve(field, p string) (string, error) {
	resolved, err := validation.SanitizePath(s.workspaceRoot, p)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", field, p, err)
	}
	return resolved, nil
}

// compressorFor layers the request's settings over the service defaults.
func (s *Service) compressorFor(req CompressRequest, progress ProgressFunc) *Compressor {
	opts := []CompressOption{WithEncoding(req.Encoding)}

	if req.Compression != "" {
		if level, err := ParseCompressionLevel(req.Compression); err == nil {
			opts = append(opts, WithCompression(level))
		}
	}

	switch {
	case req.Encryption != "":
		if method, err := ParseEncryptionMethod(req.Encryption); err == nil {
			opts = append(opts, WithEncryption(method, req.Password))
		}
	case req.Password != "":
		opts = append(opts, WithEncryption(s.compressor.Encryption(), req.Password))
	}

	if req.RootPath != nil {
		opts = append(opts, WithRootPath(*req.RootPath))
	}

	opts = append(opts, WithProgress(progress))

	return s.compressor.With(opts...)
}

func progressReporter(writer ProgressWriter, log *logging.Logger) ProgressFunc {
	return func(name string, count int) {
		writer.WriteMessage(StreamTypeProgress, name)
		if count%progressLogInterval == 0 {
			log.Debug("Archive progress", zap.Int("entries", count))
		}
	}
}

func (s *Service) CreateArchive(ctx context.Context, req CompressRequest, writer ProgressWriter) (*Result, error) {
	if writer == nil {
		writer = DiscardProgress
	}

	if err := ValidateCompressRequest(req); err != nil {
		return nil, err
	}

	output, err := s.resolve("output", req.Output)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(req.Paths))
	for _, p := range req.Paths {
		resolved, err := s.resolve("path", p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, resolved)
	}

	opID := uuid.New().String()
	log := s.logger.With(
		zap.String("operation_id", opID),
		zap.String("operation", "compress"),
		zap.String("archive", output),
	)

	count := 0
	compressor := s.compressorFor(req, countingProgress(&count, progressReporter(writer, log)))

	log.Info("Creating archive",
		zap.Strings("paths", paths),
		zap.String("encoding", compressor.Encoding()),
		zap.Stringer("compression", compressor.Compression()),
		zap.Stringer("encryption", compressor.Encryption()),
		zap.String("root_path", compressor.RootPath()))
	writer.WriteStdout(fmt.Sprintf("Creating archive: %s", filepath.Base(output)))

	start := time.Now()
	if _, err := compressor.Compress(ctx, output, paths...); err != nil {
		log.Error("Archive creation failed", zap.Error(err), zap.Int("entries", count))
		writer.WriteError(err.Error())
		return nil, err
	}

	result := &Result{
		OperationID: opID,
		Path:        output,
		Entries:     count,
		Duration:    time.Since(start),
	}

	log.Info("Archive created", zap.Int("entries", count), zap.Duration("duration", result.Duration))
	writer.WriteMessage(StreamTypeComplete, fmt.Sprintf("Created %s with %d entries", filepath.Base(output), count))

	return result, nil
}

func (s *Service) ExtractArchive(ctx context.Context, req ExtractRequest, writer ProgressWriter) (*Result, error) {
	if writer == nil {
		writer = DiscardProgress
	}

	if err := ValidateExtractRequest(req); err != nil {
		return nil, err
	}

	archivePath, err := s.resolve("archive", req.Archive)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolve("destination", req.Destination)
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	log := s.logger.With(
		zap.String("operation_id", opID),
		zap.String("operation", "extract"),
		zap.String("archive", archivePath),
	)

	count := 0
	opts := []ExtractOption{
		WithExtractEncoding(req.Encoding),
		WithExtractProgress(countingProgress(&count, progressReporter(writer, log))),
	}
	if req.AutoCreateDirectory != nil {
		opts = append(opts, WithAutoCreateDirectory(*req.AutoCreateDirectory))
	}
	extractor := s.extractor.With(opts...)

	log.Info("Extracting archive",
		zap.String("destination", destination),
		zap.String("encoding", extractor.Encoding()),
		zap.Bool("auto_create_directory", extractor.AutoCreateDirectory()),
		zap.Bool("password_supplied", req.Password != ""))
	writer.WriteStdout(fmt.Sprintf("Extracting archive: %s", filepath.Base(archivePath)))

	start := time.Now()
	dir, err := extractor.Extract(ctx, destination, archivePath, req.Password)
	if err != nil {
		log.Error("Archive extraction failed", zap.Error(err), zap.Int("entries", count))
		writer.WriteError(err.Error())
		return nil, err
	}

	result := &Result{
		OperationID: opID,
		Path:        dir,
		Entries:     count,
		Duration:    time.Since(start),
	}

	log.Info("Archive extracted",
		zap.String("directory", dir),
		zap.Int("entries", count),
		zap.Duration("duration", result.Duration))
	writer.WriteMessage(StreamTypeComplete, fmt.Sprintf("Extracted %d entries to %s", count, dir))

	return result, nil
}

func (s *Service) ListArchive(ctx context.Context, req ListRequest) (*ListResult, error) {
	if err := ValidateListRequest(req); err != nil {
		return nil, err
	}

	archivePath, err := s.resolve("archive", req.Archive)
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	entries, err := s.extractor.With(WithExtractEncoding(req.Encoding)).List(ctx, archivePath)
	if err != nil {
		s.logger.Warn("Archive listing failed",
			zap.String("operation_id", opID),
			zap.String("archive", archivePath),
			zap.Error(err))
		return nil, err
	}

	result := &ListResult{
		OperationID: opID,
		Archive:     archivePath,
		Entries:     make([]EntryInfo, 0, len(entries)),
	}
	for _, e := range entries {
		result.Encrypted = result.Encrypted || e.Encrypted
		result.Entries = append(result.Entries, EntryInfo{
			Name:             e.Name,
			IsDirectory:      e.IsDir,
			Encrypted:        e.Encrypted,
			Method:           e.Method.String(),
			CompressedSize:   e.CompressedSize,
			UncompressedSize: e.UncompressedSize,
			ModTime:          e.Modified,
		})
	}

	return result, nil
}

func countingProgress(count *int, next ProgressFunc) ProgressFunc {
	return func(name string, n int) {
		*count = n
		if next != nil {
			next(name, n)
		}
	}
}
