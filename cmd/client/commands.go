package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/JobMatch/internal/awsSession"
	"github.com/akolanti/JobMatch/internal/client"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/spf13/cobra"
)

const (
	exitOK              = 0
	exitFailure         = 1
	exitStillProcessing = 2
	exitUploadFailed    = 3
)

// storeFactory opens the object store the client talks to.
type storeFactory func(ctx context.Context, settings *config.Settings) (objectStore.ObjectStore, func() error, error)

func storeFromSettings(ctx context.Context, settings *config.Settings) (objectStore.ObjectStore, func() error, error) {
	awsCfg, err := awsSession.Load(ctx, settings.AWSRegion, settings.AWSAccessKey, settings.AWSSecretKey)
	if err != nil {
		return nil, nil, err
	}
	return objectStore.New(ctx, settings, awsCfg)
}

type app struct {
	openStore  storeFactory
	configFile string
	asJSON     bool
	exitCode   int
	renderer   *client.Renderer
}

func run(args []string, stdout, stderr io.Writer, openStore storeFactory) int {
	a := &app{openStore: openStore, renderer: client.NewRenderer()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if a.exitCode == exitOK {
			a.exitCode = exitFailure
		}
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "jobmatch-client",
		Short:         "Upload resumes and read their job matches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", os.Getenv("JOBMATCH_CONFIG"), "optional config file")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print the raw match list as JSON")

	root.AddCommand(&cobra.Command{
		Use:   "submit <resume.pdf>",
		Short: "Upload a PDF resume and wait for its matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return a.fail(cmd, &client.UploadError{Name: filepath.Base(args[0]), Err: err})
			}
			return a.withSubmitter(cmd, func(ctx context.Context, s *client.Submitter) (client.Result, error) {
				return s.Submit(ctx, args[0], body)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "poll <filename>",
		Short: "Wait for the matches of an uploaded resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSubmitter(cmd, func(ctx context.Context, s *client.Submitter) (client.Result, error) {
				return s.Poll(ctx, filepath.Base(args[0]))
			})
		},
	})
	return root
}

func (a *app) withSubmitter(cmd *cobra.Command, do func(ctx context.Context, s *client.Submitter) (client.Result, error)) error {
	settings, err := config.Load(a.configFile)
	if err != nil {
		return a.fail(cmd, err)
	}
	logger_i.Init(settings.IsProd, settings.LogLevel)
	if settings.Bucket == "" && settings.StoreBackend != config.StoreBackendMemory {
		return a.fail(cmd, errors.New("S3_BUCKET_NAME is required"))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := a.openStore(ctx, settings)
	if err != nil {
		return a.fail(cmd, err)
	}
	defer closeStore()

	policy := client.PollPolicy{MaxAttempts: settings.PollAttempts, Interval: settings.PollInterval}
	if policy.MaxAttempts <= 0 {
		policy = client.DefaultPollPolicy()
	}
	// never wait past the last poll plus one interval of slack
	ctx, cancel := context.WithTimeout(ctx, time.Duration(policy.MaxAttempts+1)*policy.Interval+time.Minute)
	defer cancel()

	res, err := do(ctx, client.NewSubmitter(store, settings.Bucket, policy, client.RealClock{}))
	if err != nil {
		return a.fail(cmd, err)
	}
	return a.print(cmd, res)
}

func (a *app) print(cmd *cobra.Command, res client.Result) error {
	if res.Status != client.StatusReady {
		a.exitCode = exitStillProcessing
	}
	if a.asJSON && res.Status == client.StatusReady {
		data, err := json.MarshalIndent(res.Matches, "", "  ")
		if err != nil {
			return a.fail(cmd, fmt.Errorf("failed to marshal results: %w", err))
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(a.renderer.Render(res))
	return nil
}

func (a *app) fail(cmd *cobra.Command, err error) error {
	var upload *client.UploadError
	if errors.As(err, &upload) {
		a.exitCode = exitUploadFailed
	} else {
		a.exitCode = exitFailure
	}
	cmd.PrintErrln(a.renderer.RenderError(err))
	return err
}
