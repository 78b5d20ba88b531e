package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/config"
	"github.com/sagarc03/bucketctl/console"
	"github.com/sagarc03/bucketctl/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long: `Create or update the config file interactively.

You will be prompted for:
  - Host of the storage server (host[:port], no scheme)
  - Access key
  - Secret key
  - Bucket name
  - Provider and region
  - Whether to use TLS

The connection is tested before saving. The file is written with
owner-only permissions to the --config path.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

// wizard asks the questions of the init flow.
type wizard interface {
	Ask(label, def string, mask bool, validate func(string) error) (string, error)
	Confirm(label string) (bool, error)
}

// probeFunc checks that the configured server answers.
type probeFunc func(ctx context.Context, cfg storage.Config, bucket string) error

type initRunner struct {
	wizard wizard
	probe  probeFunc
	out    io.Writer
}

func runInit(cmd *cobra.Command, _ []string) error {
	r := &initRunner{
		wizard: &console.PromptUI{},
		probe:  probeServer,
		out:    cmd.OutOrStdout(),
	}
	err := r.run(cmd.Context(), cfgFile)
	if errors.Is(err, bucketctl.ErrCancelled) {
		_, _ = fmt.Fprintln(r.out, "Cancelled.")
		return nil
	}
	return err
}

func (r *initRunner) run(ctx context.Context, path string) error {
	if path == "" {
		path = config.DefaultPath
	}

	current := &config.File{Secure: true, Provider: storage.ProviderMinio, Region: "us-east-1"}
	if existing, err := config.LoadFile(path); err == nil {
		ok, err := r.wizard.Confirm(fmt.Sprintf("Config file %s already exists. Overwrite", path))
		if err != nil {
			return err
		}
		if !ok {
			return bucketctl.ErrCancelled
		}
		current = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := r.ask(current)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprint(r.out, "Testing connection... ")
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	probeErr := r.probe(probeCtx, storage.Config{
		Provider:  f.Provider,
		Host:      f.Host,
		AccessKey: f.AccessKey,
		SecretKey: f.SecretKey,
		Region:    f.Region,
		Secure:    f.Secure,
	}, f.Bucket)
	cancel()

	if probeErr != nil {
		_, _ = fmt.Fprintln(r.out, "FAILED")
		_, _ = fmt.Fprintf(r.out, "Warning: Could not connect to server: %v\n", probeErr)

		ok, err := r.wizard.Confirm("Save config anyway")
		if err != nil {
			return err
		}
		if !ok {
			return bucketctl.ErrCancelled
		}
	} else {
		_, _ = fmt.Fprintln(r.out, "OK")
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	_, _ = fmt.Fprintf(r.out, "Config written to %s\n", path)
	_, _ = fmt.Fprintf(r.out, "  Host:       %s\n", f.Host)
	_, _ = fmt.Fprintf(r.out, "  Access Key: %s\n", console.MaskSecret(f.AccessKey))
	_, _ = fmt.Fprintf(r.out, "  Secret Key: %s\n", console.MaskSecret(f.SecretKey))
	_, _ = fmt.Fprintf(r.out, "  Bucket:     %s\n", f.Bucket)
	return nil
}

// ask collects every field, offering current values as defaults.
func (r *initRunner) ask(current *config.File) (*config.File, error) {
	f := &config.File{}
	var err error

	if f.Host, err = r.wizard.Ask("Host", current.Host, false, validateHost); err != nil {
		return nil, err
	}
	if f.AccessKey, err = r.wizard.Ask("Access Key", current.AccessKey, false, nil); err != nil {
		return nil, err
	}
	if f.SecretKey, err = r.wizard.Ask("Secret Key", "", true, nil); err != nil {
		return nil, err
	}
	if f.SecretKey == "" {
		f.SecretKey = current.SecretKey
	}
	if f.Bucket, err = r.wizard.Ask("Bucket", current.Bucket, false, required("bucket")); err != nil {
		return nil, err
	}
	if f.Provider, err = r.wizard.Ask("Provider (minio, s3)", current.Provider, false, validateProvider); err != nil {
		return nil, err
	}
	if f.Region, err = r.wizard.Ask("Region", current.Region, false, required("region")); err != nil {
		return nil, err
	}
	if f.Secure, err = r.wizard.Confirm("Use TLS"); err != nil {
		return nil, err
	}

	return f, nil
}

func validateHost(input string) error {
	if input == "" {
		return errors.New("host is required")
	}
	if strings.Contains(input, "://") {
		return errors.New("host must not include a scheme")
	}
	if strings.Contains(input, "/") {
		return errors.New("host must not include a path")
	}
	return nil
}

func validateProvider(input string) error {
	switch input {
	case storage.ProviderMinio, storage.ProviderS3:
		return nil
	default:
		return fmt.Errorf("unknown provider %q", input)
	}
}

func required(field string) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// probeServer sends one BucketExists request. A missing bucket still
// counts as a working connection.
func probeServer(ctx context.Context, cfg storage.Config, bucket string) error {
	store, err := storage.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := store.BucketExists(ctx, bucket); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
