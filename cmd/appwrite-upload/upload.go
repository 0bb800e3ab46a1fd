package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/appwrite-go/client-go/chunkuploader"
	"github.com/appwrite-go/client-go/envconf"
	"github.com/appwrite-go/client-go/file"
	"github.com/appwrite-go/client-go/id"
)

func init() {
	uploadCmd.Flags().String("file_id", "", "File ID, generated by the server when empty")
	uploadCmd.Flags().StringArray("permissions", nil, "Permission string, repeatable, e.g. read(\"any\")")
	uploadCmd.Flags().String("mime_type", "", "Override the detected MIME type")
	uploadCmd.Flags().String("output", "text", "Result format: text or json")
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload <bucket-id> <path>",
	Short: "Upload a local file into a bucket",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpload,
}

type uploadConfig struct {
	BucketID    string   `env:"bucket_id,required"`
	Path        string   `env:"path,file"`
	FileID      string   `env:"APPWRITE_FILE_ID"`
	Permissions []string `env:"APPWRITE_PERMISSIONS"`
	MimeType    *string  `env:"APPWRITE_MIME_TYPE"`
	Output      string   `env:"APPWRITE_OUTPUT,opt[text,json]"`
}

func runUpload(cmd *cobra.Command, args []string) error {
	getter := newConfigGetter(cmd, v, map[string]string{"bucket_id": args[0], "path": args[1]})

	var cfg uploadConfig
	if err := envconf.NewInputParser(getter).Parse(&cfg); err != nil {
		return err
	}

	svc, logger, err := newStorage(getter)
	if err != nil {
		return err
	}

	fileID := cfg.FileID
	if fileID == "" {
		fileID = id.Unique()
	}
	input := file.FromPath(cfg.Path)
	if cfg.MimeType != nil {
		input = input.WithMimeType(*cfg.MimeType)
	}

	out := cmd.OutOrStdout()
	onProgress := progressPrinter(out)
	if cfg.Output == "json" {
		onProgress = nil
	}

	created, err := svc.CreateFile(cmd.Context(), cfg.BucketID, fileID, input, cfg.Permissions, onProgress)
	if err != nil {
		return fmt.Errorf("upload %s: %w", cfg.Path, err)
	}

	if cfg.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(created)
	}
	fmt.Fprintln(out)
	logger.Donef("Uploaded %s as %s (%s)", cfg.Path, created.ID, units.BytesSize(float64(created.SizeOriginal)))
	return nil
}

func progressPrinter(out io.Writer) chunkuploader.ProgressFunc {
	return func(p chunkuploader.UploadProgress) {
		fmt.Fprintf(out, "\r%s", formatProgress(p))
	}
}

func formatProgress(p chunkuploader.UploadProgress) string {
	line := fmt.Sprintf("%6.2f%% %s", p.Progress, units.BytesSize(float64(p.SizeUploaded)))
	if p.ChunksTotal > 0 {
		line += fmt.Sprintf(" (chunk %d/%d)", p.ChunksUploaded, p.ChunksTotal)
	}
	return line
}
