//go:build ort

package ort

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	onnxruntime "github.com/yalue/onnxruntime_go"
)

// runtimeBuilt indicates this binary was compiled with real onnxruntime
// support.
var runtimeBuilt = true

type nativeRuntime struct {
	opts Options
}

// NewRuntime returns the onnxruntime-backed implementation.
func NewRuntime(opts Options) Runtime {
	return &nativeRuntime{opts: opts}
}

func (r *nativeRuntime) Name() string { return "onnxruntime" }

func (r *nativeRuntime) Init() error {
	if r.opts.LibraryPath != "" {
		onnxruntime.SetSharedLibraryPath(r.opts.LibraryPath)
	}
	return onnxruntime.InitializeEnvironment()
}

func (r *nativeRuntime) Shutdown() error {
	return onnxruntime.DestroyEnvironment()
}

func (r *nativeRuntime) NewSession(model Model, opts SessionOptions) (Session, error) {
	path := model.Path
	tmp := ""
	if path == "" {
		if len(model.Data) == 0 {
			return nil, errors.New("model has neither bytes nor a path")
		}
		// The C API wants a file, so inline bytes take a brief detour
		// through the filesystem. Removed again on session Close.
		f, err := os.CreateTemp("", "onnxd-inline-*.onnx")
		if err != nil {
			return nil, fmt.Errorf("stage inline model: %w", err)
		}
		if _, err := f.Write(model.Data); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return nil, fmt.Errorf("stage inline model: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(f.Name())
			return nil, fmt.Errorf("stage inline model: %w", err)
		}
		tmp = f.Name()
		path = tmp
	}
	fail := func(err error) (Session, error) {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
		return nil, err
	}

	so, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return fail(fmt.Errorf("session options: %w", err))
	}
	defer so.Destroy()
	if r.opts.IntraOpThreads > 0 {
		if err := so.SetIntraOpNumThreads(r.opts.IntraOpThreads); err != nil {
			return fail(fmt.Errorf("intra op threads: %w", err))
		}
	}
	if r.opts.InterOpThreads > 0 {
		if err := so.SetInterOpNumThreads(r.opts.InterOpThreads); err != nil {
			return fail(fmt.Errorf("inter op threads: %w", err))
		}
	}
	if opts.UseCUDA {
		co, err := onnxruntime.NewCUDAProviderOptions()
		if err != nil {
			return fail(fmt.Errorf("cuda provider: %w", err))
		}
		defer co.Destroy()
		if err := co.Update(map[string]string{"device_id": strconv.Itoa(opts.DeviceID)}); err != nil {
			return fail(fmt.Errorf("cuda device %d: %w", opts.DeviceID, err))
		}
		if err := so.AppendExecutionProviderCUDA(co); err != nil {
			return fail(fmt.Errorf("cuda provider: %w", err))
		}
	}

	inputs, outputs, err := onnxruntime.GetInputOutputInfo(path)
	if err != nil {
		return fail(fmt.Errorf("inspect %s: %w", model.Name, err))
	}
	inNames := make([]string, len(inputs))
	for i, in := range inputs {
		inNames[i] = in.Name
	}
	outNames := make([]string, len(outputs))
	for i, out := range outputs {
		outNames[i] = out.Name
	}
	sess, err := onnxruntime.NewDynamicAdvancedSession(path, inNames, outNames, so)
	if err != nil {
		return fail(fmt.Errorf("create session for %s: %w", model.Name, err))
	}
	return &nativeSession{sess: sess, inputs: inNames, outputs: outNames, tmp: tmp}, nil
}

type nativeSession struct {
	sess    *onnxruntime.DynamicAdvancedSession
	inputs  []string
	outputs []string
	tmp     string
}

func (s *nativeSession) Inputs() []string  { return s.inputs }
func (s *nativeSession) Outputs() []string { return s.outputs }

func (s *nativeSession) Close() error {
	var err error
	if s.sess != nil {
		err = s.sess.Destroy()
		s.sess = nil
	}
	if s.tmp != "" {
		_ = os.Remove(s.tmp)
		s.tmp = ""
	}
	return err
}
