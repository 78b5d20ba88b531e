package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/config"
	"github.com/sagarc03/bucketctl/console"
	"github.com/sagarc03/bucketctl/storage"
)

var (
	version = "dev"

	cfgFile    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:     "bucketctl",
	Version: version,
	Short:   "Upload, download and list objects in an S3-compatible bucket",
	Long: `bucketctl - one-shot client for MinIO and other S3-compatible storage

Connection settings are read from a YAML config file and can be overridden
with BUCKETCTL_* environment variables or flags. Exactly one action runs per
invocation:

  -u, --upload <path>   upload a local file under its base name
  -d, --download        list the bucket and download a chosen object
  -l, --list_files      list every object in the bucket

Missing buckets are created for upload and download. Listing a missing
bucket prints "No such bucket, abort." and exits cleanly.

Examples:
  bucketctl -u ./photo.jpg
  bucketctl -l -b backups
  bucketctl -c prod.yaml --host minio.local:9000 -d`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "path to config file")

	flags := rootCmd.Flags()
	flags.String("host", "", "override host[:port] of the storage server (env: BUCKETCTL_HOST)")
	flags.StringP("access_key", "a", "", "override access key (env: BUCKETCTL_ACCESS_KEY)")
	flags.StringP("secret_key", "s", "", "override secret key (env: BUCKETCTL_SECRET_KEY)")
	flags.StringP("bucket", "b", "", "name of the bucket (env: BUCKETCTL_BUCKET)")
	flags.StringP("upload", "u", "", "path to file that will be uploaded")
	flags.BoolP("download", "d", false, "choose a file from the bucket and download it")
	flags.BoolP("list_files", "l", false, "list files in the bucket")
	flags.String("region", "", "bucket region (default: us-east-1, env: BUCKETCTL_REGION)")
	flags.String("provider", "", "client library: minio, s3 (default: minio, env: BUCKETCTL_PROVIDER)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: warn, env: BUCKETCTL_LOG_LEVEL)")
	flags.BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.MarkFlagsMutuallyExclusive("upload", "download", "list_files")

	rootCmd.AddCommand(initCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := setupLogging(cfg, cmd.ErrOrStderr())
	logger.Debug("config loaded", "path", cfgFile, "host", cfg.Host, "bucket", cfg.Bucket, "provider", cfg.Provider)

	formatter := console.NewFormatter(jsonOutput)
	out := cmd.OutOrStdout()

	action := cfg.Action()
	if action == bucketctl.ActionNone {
		return formatter.FormatMessage(out, "No actions")
	}

	ctx := cmd.Context()
	store, err := storage.Connect(ctx, cfg.Storage())
	if err != nil {
		return err
	}

	svc, err := bucketctl.NewService(store, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	a := &app{
		svc:       svc,
		formatter: formatter,
		prompter:  &console.PromptUI{},
		out:       out,
	}
	return a.run(ctx, action, cfg.Upload)
}

// app runs one action and reports its outcome.
type app struct {
	svc       *bucketctl.Service
	formatter console.Formatter
	prompter  bucketctl.Prompter
	out       io.Writer
	// dir receives downloads, the working directory when empty.
	dir string
}

func (a *app) run(ctx context.Context, action bucketctl.Action, uploadPath string) error {
	switch action {
	case bucketctl.ActionUpload:
		return a.upload(ctx, uploadPath)
	case bucketctl.ActionDownload:
		return a.download(ctx)
	case bucketctl.ActionList:
		return a.list(ctx)
	default:
		return a.formatter.FormatMessage(a.out, "No actions")
	}
}

// upload never fails the run: errors are printed and the process exits 0.
func (a *app) upload(ctx context.Context, path string) error {
	result, err := a.svc.Upload(ctx, path)
	if err != nil {
		return a.formatter.FormatError(a.out, err)
	}
	return a.formatter.FormatUpload(a.out, result)
}

func (a *app) list(ctx context.Context) error {
	entries, err := a.svc.List(ctx, bucketctl.ActionList)
	if errors.Is(err, bucketctl.ErrNoSuchBucket) {
		return a.formatter.FormatMessage(a.out, "No such bucket, abort.")
	}
	if err != nil {
		return err
	}
	return a.formatter.FormatList(a.out, a.svc.Bucket(), entries)
}

func (a *app) download(ctx context.Context) error {
	entries, err := a.svc.List(ctx, bucketctl.ActionDownload)
	if err != nil {
		return err
	}
	if err := a.formatter.FormatList(a.out, a.svc.Bucket(), entries); err != nil {
		return err
	}

	result, err := a.svc.Download(ctx, entries, bucketctl.DownloadOptions{
		Prompter: a.prompter,
		Out:      a.out,
		Dir:      a.dir,
	})
	switch {
	case errors.Is(err, bucketctl.ErrCancelled):
		return a.formatter.FormatMessage(a.out, "Cancelled.")
	case errors.Is(err, bucketctl.ErrEmptyBucket):
		return a.formatter.FormatMessage(a.out, "Bucket is empty, nothing to download.")
	case err != nil:
		return err
	}

	return a.formatter.FormatDownload(a.out, result)
}
