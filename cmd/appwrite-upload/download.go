package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/appwrite-go/client-go/envconf"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <bucket-id> <file-id> <dest>",
	Short: "Download a file to a local path",
	Args:  cobra.ExactArgs(3),
	RunE:  runDownload,
}

type downloadConfig struct {
	BucketID string `env:"bucket_id,required"`
	FileID   string `env:"file_id,required"`
	Dest     string `env:"dest,required"`
	// DestDir must exist; the file itself is created by the download.
	DestDir string `env:"dest_dir,dir"`
}

func runDownload(cmd *cobra.Command, args []string) error {
	getter := newConfigGetter(cmd, v, map[string]string{
		"bucket_id": args[0],
		"file_id":   args[1],
		"dest":      args[2],
		"dest_dir":  filepath.Dir(args[2]),
	})

	var cfg downloadConfig
	if err := envconf.NewInputParser(getter).Parse(&cfg); err != nil {
		return err
	}

	svc, logger, err := newStorage(getter)
	if err != nil {
		return err
	}
	if err := svc.DownloadFile(cmd.Context(), cfg.BucketID, cfg.FileID, cfg.Dest); err != nil {
		return fmt.Errorf("download %s: %w", cfg.FileID, err)
	}
	logger.Donef("Downloaded %s to %s", cfg.FileID, cfg.Dest)
	return nil
}
