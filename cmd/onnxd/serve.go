package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"onnxd/internal/artifact"
	"onnxd/internal/backend"
	"onnxd/internal/config"
	"onnxd/internal/fetch"
	"onnxd/internal/gpu"
	"onnxd/internal/httpapi"
	"onnxd/internal/manager"
	"onnxd/internal/ort"
	"onnxd/internal/repo"
	"onnxd/internal/scratch"
)

// watchDebounce is how long the repository must stay quiet after a change
// before a reload fires.
const watchDebounce = 500 * time.Millisecond

type serveOptions struct {
	addr        string
	configPath  string
	repository  string
	scratchDir  string
	minCC       float64
	ortLibrary  string
	intraOp     int
	interOp     int
	watch       bool
	gpuSpec     string
	s3Region    string
	s3Endpoint  string
	corsEnabled bool
	corsOrigins string
	corsMethods string
	corsHeaders string
	loadTimeout int64
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model repository over HTTP",
		Example: "  onnxd serve --repository /srv/models\n" +
			"  onnxd serve --repository /srv/models --gpus 0:7.5,1:8.0 --watch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", envOr("ONNXD_ADDR", ":8080"), "HTTP listen address, e.g. :8080 (defaults ONNXD_ADDR or :8080)")
	f.StringVar(&opts.configPath, "config", "", "Optional config file (.yaml/.json/.toml); explicit flags win")
	f.StringVar(&opts.repository, "repository", "", "Model repository directory (required)")
	f.StringVar(&opts.scratchDir, "scratch-dir", filepath.Join(os.TempDir(), "onnxd-scratch"), "Scratch directory for localized artifact bundles")
	f.Float64Var(&opts.minCC, "min-compute-capability", 6.0, "Minimum CUDA compute capability for GPU placements")
	f.StringVar(&opts.ortLibrary, "ort-library", "", "Path to the onnxruntime shared library (empty = platform search order)")
	f.IntVar(&opts.intraOp, "intra-op-threads", 0, "Threads per operator (0 = runtime default)")
	f.IntVar(&opts.interOp, "inter-op-threads", 0, "Threads across operators (0 = runtime default)")
	f.BoolVar(&opts.watch, "watch", false, "Reload models when the repository changes on disk")
	f.StringVar(&opts.gpuSpec, "gpus", "", "Declared GPU inventory as id:capability pairs, e.g. 0:7.5,1:8.0 (empty = probe)")
	f.StringVar(&opts.s3Region, "s3-region", "", "AWS region for s3:// artifact sources")
	f.StringVar(&opts.s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint, e.g. a MinIO URL")
	f.BoolVar(&opts.corsEnabled, "cors-enabled", false, "Enable CORS middleware")
	f.StringVar(&opts.corsOrigins, "cors-origins", "*", "Comma-separated allowed CORS origins")
	f.StringVar(&opts.corsMethods, "cors-methods", "GET,POST", "Comma-separated allowed CORS methods")
	f.StringVar(&opts.corsHeaders, "cors-headers", "", "Comma-separated allowed CORS headers")
	f.Int64Var(&opts.loadTimeout, "load-timeout-sec", 0, "Abort a load request after this many seconds (0 = no limit)")
	return cmd
}

// applyConfigFile folds file values into opts. Flags the user set explicitly
// keep their values; only unchanged flags pick up file settings.
func applyConfigFile(cmd *cobra.Command, opts *serveOptions) error {
	if opts.configPath == "" {
		return nil
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	fl := cmd.Flags()
	if !fl.Changed("addr") && cfg.Addr != "" {
		opts.addr = cfg.Addr
	}
	if !fl.Changed("repository") && cfg.RepositoryDir != "" {
		opts.repository = cfg.RepositoryDir
	}
	if !fl.Changed("scratch-dir") && cfg.ScratchDir != "" {
		opts.scratchDir = cfg.ScratchDir
	}
	if !fl.Changed("min-compute-capability") && cfg.MinComputeCapability > 0 {
		opts.minCC = cfg.MinComputeCapability
	}
	if !fl.Changed("ort-library") && cfg.OrtLibrary != "" {
		opts.ortLibrary = cfg.OrtLibrary
	}
	if !fl.Changed("intra-op-threads") && cfg.IntraOpThreads > 0 {
		opts.intraOp = cfg.IntraOpThreads
	}
	if !fl.Changed("inter-op-threads") && cfg.InterOpThreads > 0 {
		opts.interOp = cfg.InterOpThreads
	}
	if !fl.Changed("watch") && cfg.Watch {
		opts.watch = true
	}
	if !fl.Changed("s3-region") && cfg.S3Region != "" {
		opts.s3Region = cfg.S3Region
	}
	if !fl.Changed("s3-endpoint") && cfg.S3Endpoint != "" {
		opts.s3Endpoint = cfg.S3Endpoint
	}
	return nil
}

// gpuInventory returns the declared inventory when --gpus is set, otherwise
// the probed one. A failed probe degrades to CPU-only serving.
func gpuInventory(spec string) ([]gpu.Device, error) {
	if spec != "" {
		return parseGPUSpec(spec)
	}
	devices, err := gpu.Probe()
	if err != nil {
		logger.Warn().Err(err).Msg("gpu probe failed, continuing without accelerators")
		return nil, nil
	}
	return devices, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	if err := applyConfigFile(cmd, opts); err != nil {
		return err
	}
	if opts.repository == "" {
		return fmt.Errorf("--repository is required")
	}

	devices, err := gpuInventory(opts.gpuSpec)
	if err != nil {
		return err
	}
	for _, d := range devices {
		logger.Info().Str("device", d.String()).Msg("gpu visible")
	}

	root, err := scratch.Open(opts.scratchDir)
	if err != nil {
		return err
	}
	defer root.Close()
	if root.Owned() {
		if n, err := root.Sweep(); err != nil {
			logger.Warn().Err(err).Msg("scratch sweep failed")
		} else if n > 0 {
			logger.Info().Int("removed", n).Str("dir", root.Dir()).Msg("swept stale scratch stores")
		}
	}

	resolver := artifact.NewResolver(root, fetch.New(fetch.S3Options{
		Region:   opts.s3Region,
		Endpoint: opts.s3Endpoint,
	}))
	bcfg := &backend.Config{
		Runtime: ort.Options{
			LibraryPath:    opts.ortLibrary,
			IntraOpThreads: opts.intraOp,
			InterOpThreads: opts.interOp,
		},
		GPUs: devices,
	}
	loader := ort.NewLoader(ort.NewRuntime(bcfg.Runtime))

	m := manager.NewWithConfig(manager.ManagerConfig{
		RepositoryDir:        opts.repository,
		MinComputeCapability: opts.minCC,
		NewFactory: func() (*backend.Factory, error) {
			return backend.NewFactory(bcfg, loader, resolver)
		},
		GPUs:      devices,
		Publisher: eventLogger{},
	})
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn().Err(err).Msg("manager close")
		}
	}()

	if err := m.LoadAll(cmd.Context()); err != nil {
		// Scan failures are reported through /status; keep serving so a fixed
		// repository can be picked up by a later reload.
		logger.Error().Err(err).Str("repository", opts.repository).Msg("initial repository scan failed")
	}

	if opts.watch {
		w, err := repo.Watch(opts.repository, watchDebounce, func() {
			if err := m.Reload(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("reload after repository change failed")
			}
		})
		if err != nil {
			return fmt.Errorf("watch repository: %w", err)
		}
		defer w.Close()
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLoadTimeoutSeconds(opts.loadTimeout)
	httpapi.SetCORSOptions(opts.corsEnabled, splitCSV(opts.corsOrigins), splitCSV(opts.corsMethods), splitCSV(opts.corsHeaders))

	srv := &http.Server{Addr: opts.addr, Handler: httpapi.NewMux(m)}
	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", opts.addr).Str("repository", opts.repository).Int("gpus", len(devices)).Msg("onnxd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown")
	}
	return nil
}

// eventLogger forwards manager lifecycle events to the process logger.
type eventLogger struct{}

func (eventLogger) Publish(ev manager.Event) {
	e := logger.Info()
	if ev.Name == "load_failed" {
		e = logger.Warn()
	}
	e = e.Str("event", ev.Name).Str("model", ev.Model)
	if ev.OpID != "" {
		e = e.Str("op_id", ev.OpID)
	}
	for k, v := range ev.Fields {
		e = e.Interface(k, v)
	}
	e.Msg("model lifecycle")
}
