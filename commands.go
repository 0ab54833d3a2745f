package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/szmslab/quickzip/config"
	"github.com/szmslab/quickzip/internal/archive"
	"github.com/szmslab/quickzip/internal/logging"

	"github.com/spf13/cobra"
)

const passwordEnv = "QUICKZIP_PASSWORD"

// newCLIService builds the archive service used by the local commands. Paths are
// taken as given; the workspace root only confines the HTTP server.
func newCLIService() (*archive.Service, *logging.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel, "stderr")
	if err != nil {
		return nil, nil, err
	}

	compressOpts, extractOpts, err := archive.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	service := archive.NewService("",
		archive.NewCompressor(compressOpts...),
		archive.NewExtractor(extractOpts...),
		logger)
	return service, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func passwordOrEnv(password string) string {
	if password != "" {
		return password
	}
	return os.Getenv(passwordEnv)
}

func newCompressCmd() *cobra.Command {
	var (
		output      string
		encoding    string
		compression string
		encryption  string
		password    string
		rootPath    string
	)

	cmd := &cobra.Command{
		Use:   "compress -o ARCHIVE PATH...",
		Short: "Compress files and directories into a ZIP archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, logger, err := newCLIService()
			if err != nil {
				return err
			}
			defer logger.Sync()

			req := archive.CompressRequest{
				Output:      output,
				Paths:       args,
				Encoding:    encoding,
				Compression: compression,
				Encryption:  encryption,
				Password:    passwordOrEnv(password),
			}
			if cmd.Flags().Changed("root-path") {
				req.RootPath = &rootPath
			}

			ctx, cancel := signalContext()
			defer cancel()

			result, err := service.CreateArchive(ctx, req, archive.NewTextWriter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive to create (required)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Charset for entry names, or \"host\"")
	cmd.Flags().StringVar(&compression, "compression", "", "store or deflate_fastest ... deflate_highest")
	cmd.Flags().StringVar(&encryption, "encryption", "", "none, zip_crypto, aes_128 or aes_256")
	cmd.Flags().StringVar(&password, "password", "", "Encryption password (default $"+passwordEnv+")")
	cmd.Flags().StringVar(&rootPath, "root-path", "", "Directory prefix for every entry in the archive")

	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}

	return cmd
}

func newExtractCmd() *cobra.Command {
	var (
		destination string
		encoding    string
		password    string
		autoDir     bool
	)

	cmd := &cobra.Command{
		Use:   "extract [-d DIR] ARCHIVE",
		Short: "Extract a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, logger, err := newCLIService()
			if err != nil {
				return err
			}
			defer logger.Sync()

			req := archive.ExtractRequest{
				Archive:     args[0],
				Destination: destination,
				Password:    passwordOrEnv(password),
				Encoding:    encoding,
			}
			if cmd.Flags().Changed("auto-dir") {
				req.AutoCreateDirectory = &autoDir
			}

			ctx, cancel := signalContext()
			defer cancel()

			result, err := service.ExtractArchive(ctx, req, archive.NewTextWriter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "directory", "d", ".", "Directory to extract into")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Charset of entry names, or \"host\"")
	cmd.Flags().StringVar(&password, "password", "", "Decryption password (default $"+passwordEnv+")")
	cmd.Flags().BoolVar(&autoDir, "auto-dir", false, "Extract into a subdirectory named after the archive")

	return cmd
}

func newListCmd() *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List the entries of a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, logger, err := newCLIService()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()

			result, err := service.ListArchive(ctx, archive.ListRequest{Archive: args[0], Encoding: encoding})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tSIZE\tCOMPRESSED\tENCRYPTED\tMODIFIED\tNAME")
			for _, e := range result.Entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%t\t%s\t%s\n",
					e.Method, e.UncompressedSize, e.CompressedSize, e.Encrypted,
					e.ModTime.Format("2006-01-02 15:04"), e.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "Charset of entry names, or \"host\"")

	return cmd
}
