package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"onnxd/internal/artifact"
	"onnxd/internal/backend"
	"onnxd/internal/fetch"
	"onnxd/internal/manager"
	"onnxd/internal/modelcfg"
	"onnxd/internal/ort"
	"onnxd/internal/repo"
	"onnxd/internal/scratch"
)

// checkModelReport is the outcome of one model's dry-run construction.
type checkModelReport struct {
	Name        string `json:"name"`
	Version     int64  `json:"version,omitempty"`
	Artifacts   int    `json:"artifacts,omitempty"`
	Contexts    int    `json:"contexts,omitempty"`
	Constructed bool   `json:"constructed"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

type checkReport struct {
	manager.SanityReport
	Models []checkModelReport `json:"models,omitempty"`
}

// newCheckCmd builds the one-shot validation subcommand. It runs the same
// resolve and construct pipeline the daemon runs at load time, stops at the
// first failing model, prints a JSON report and exits non-zero on failure,
// which makes it usable from init containers and CI. Builds without native
// runtime support stop after artifact resolution.
func newCheckCmd() *cobra.Command {
	var (
		repository string
		model      string
		gpuSpec    string
		ortLibrary string
		minCC      float64
	)
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate repository, model configs and artifacts without serving",
		Example: "  onnxd check --repository /srv/models\n  onnxd check --repository /srv/models --model resnet50",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := gpuInventory(gpuSpec)
			if err != nil {
				return err
			}
			m := manager.NewWithConfig(manager.ManagerConfig{
				RepositoryDir: repository,
				GPUs:          devices,
			})
			defer m.Close()

			out := checkReport{SanityReport: m.SanityCheck()}
			if !out.RepositoryOK {
				printReport(out)
				return fmt.Errorf("repository %s: %s", repository, out.RepositoryError)
			}

			models, err := repo.Scan(repository)
			if err != nil {
				printReport(out)
				return err
			}
			if model != "" {
				models = filterModels(models, model)
				if len(models) == 0 {
					printReport(out)
					return fmt.Errorf("model %s not found in %s", model, repository)
				}
			}

			scratchDir, err := os.MkdirTemp("", "onnxd-check-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(scratchDir)
			root, err := scratch.Open(scratchDir)
			if err != nil {
				return err
			}
			defer root.Close()
			resolver := artifact.NewResolver(root, fetch.New(fetch.S3Options{}))

			var factory *backend.Factory
			if ort.Built() {
				bcfg := &backend.Config{
					Runtime: ort.Options{LibraryPath: ortLibrary},
					GPUs:    devices,
				}
				factory, err = backend.NewFactory(bcfg, ort.NewLoader(ort.NewRuntime(bcfg.Runtime)), resolver)
				if err != nil {
					printReport(out)
					return err
				}
				defer factory.Close()
			}

			for _, e := range models {
				r, err := checkModel(cmd, e, resolver, factory, minCC)
				out.Models = append(out.Models, r)
				if err != nil {
					printReport(out)
					return fmt.Errorf("model %s: %w", e.Name, err)
				}
			}
			printReport(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&repository, "repository", "", "Model repository directory (required)")
	cmd.Flags().StringVar(&model, "model", "", "Check only this model")
	cmd.Flags().StringVar(&gpuSpec, "gpus", "", "Declared GPU inventory as id:capability pairs (empty = probe)")
	cmd.Flags().StringVar(&ortLibrary, "ort-library", "", "Path to the onnxruntime shared library")
	cmd.Flags().Float64Var(&minCC, "min-compute-capability", 6.0, "Minimum CUDA compute capability for GPU placements")
	_ = cmd.MarkFlagRequired("repository")
	return cmd
}

// checkModel dry-runs one model. With a factory the full construction runs
// and the backend is torn down again; without one only config validation and
// artifact resolution happen.
func checkModel(cmd *cobra.Command, e repo.Entry, resolver *artifact.Resolver, factory *backend.Factory, minCC float64) (checkModelReport, error) {
	r := checkModelReport{Name: e.Name}

	cfg, err := modelcfg.Load(e.ConfigPath)
	if err != nil {
		r.Error = err.Error()
		return r, err
	}
	if err := cfg.ValidateForModel(e.Name); err != nil {
		r.Error = err.Error()
		return r, err
	}
	versionDir, version, err := repo.LatestVersion(e.Dir)
	if err != nil {
		r.Error = err.Error()
		return r, err
	}
	r.Version = version

	if factory != nil {
		b, err := factory.CreateBackend(cmd.Context(), versionDir, cfg, minCC)
		if err != nil {
			r.Error = err.Error()
			return r, err
		}
		r.Contexts = len(b.Contexts())
		r.Constructed = true
		r.OK = true
		return r, b.Close()
	}

	res, err := resolver.Resolve(cmd.Context(), versionDir)
	if err != nil {
		r.Error = err.Error()
		return r, err
	}
	defer res.Release()
	r.Artifacts = len(res.Artifacts)
	for _, g := range cfg.InstanceGroups {
		name := cfg.ArtifactFor(g)
		if _, ok := res.Artifacts[name]; !ok {
			err := fmt.Errorf("artifact %q not found in version %d", name, version)
			r.Error = err.Error()
			return r, err
		}
	}
	r.OK = true
	return r, nil
}

func filterModels(models []repo.Entry, name string) []repo.Entry {
	for _, e := range models {
		if e.Name == name {
			return []repo.Entry{e}
		}
	}
	return nil
}

func printReport(rep checkReport) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)
}
