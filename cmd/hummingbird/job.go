package main

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"github.com/jshuadvd/hummingbird/convert"
	"github.com/jshuadvd/hummingbird/onnxml"
	"github.com/jshuadvd/hummingbird/tensor"
)

// jobFile describes one conversion run on disk:
//
//	input  = "logreg.onnx"
//	output = "logreg_tensor.onnx"
//	opset  = 13
//
//	input_type {
//	  name = "float_input"
//	  elem = "float"
//	  dims = [1, 4]
//	}
//
//	extra {
//	  n_features = 4
//	}
type jobFile struct {
	Input  string `hcl:"input"`
	Output string `hcl:"output"`

	Name    string   `hcl:"name,optional"`
	Device  string   `hcl:"device,optional"`
	Opset   int64    `hcl:"opset,optional"`
	Inputs  []string `hcl:"inputs,optional"`
	Outputs []string `hcl:"outputs,optional"`

	InputTypes []inputTypeBlock `hcl:"input_type,block"`
	Extra      *extraBlock      `hcl:"extra,block"`
}

// inputTypeBlock declares the model input's element type and shape so a
// test batch can be synthesized for the trace run.
type inputTypeBlock struct {
	Name string  `hcl:"name"`
	Elem string  `hcl:"elem,optional"`
	Dims []int64 `hcl:"dims"`
}

// extraBlock defers its attributes so arbitrary converter keys pass
// through without a fixed schema.
type extraBlock struct {
	Body hcl.Body `hcl:",remain"`
}

func loadJob(path string) (*jobFile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, diags)
	}

	job := &jobFile{}
	if diags := gohcl.DecodeBody(hclFile.Body, nil, job); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", path, diags)
	}
	return job, nil
}

// runConvert executes the conversion a job file describes: load the
// serialized model, lower it on the requested device and write the
// re-assembled model to the job's output path.
func runConvert(path string, cfg *config, logger *zap.Logger) error {
	job, err := loadJob(path)
	if err != nil {
		return err
	}

	model, err := onnxml.ParseFile(job.Input)
	if err != nil {
		return fmt.Errorf("failed to load model %s: %w", job.Input, err)
	}

	deviceName := cfg.Device
	if job.Device != "" {
		deviceName = job.Device
	}
	device, err := tensor.ParseDevice(deviceName)
	if err != nil {
		return err
	}

	extra, err := job.extraConfig()
	if err != nil {
		return err
	}
	initialTypes, err := job.initialTypes()
	if err != nil {
		return err
	}

	converted, err := convert.ONNXML(model, convert.ONNXMLOptions{
		OutputModelName: job.Name,
		InitialTypes:    initialTypes,
		InputNames:      job.Inputs,
		OutputNames:     job.Outputs,
		TargetOpset:     job.Opset,
		Extra:           extra,
	}, convert.WithDevice(device), convert.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := converted.Save(job.Output); err != nil {
		return fmt.Errorf("failed to write %s: %w", job.Output, err)
	}
	logger.Info("job complete",
		zap.String("input", job.Input),
		zap.String("output", job.Output))
	return nil
}

func (j *jobFile) initialTypes() ([]onnxml.TensorType, error) {
	var out []onnxml.TensorType
	for _, block := range j.InputTypes {
		tt, err := block.tensorType()
		if err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, nil
}

func (b inputTypeBlock) tensorType() (onnxml.TensorType, error) {
	var elem int32
	switch b.Elem {
	case "", "float", "float32":
		elem = onnxml.ElemTypeFloat
	case "int32":
		elem = onnxml.ElemTypeInt32
	case "int64":
		elem = onnxml.ElemTypeInt64
	case "double", "float64":
		elem = onnxml.ElemTypeDouble
	default:
		return onnxml.TensorType{}, fmt.Errorf("input_type %q: unknown element type %q", b.Name, b.Elem)
	}
	return onnxml.TensorType{Name: b.Name, ElemType: elem, Dims: b.Dims}, nil
}

// extraConfig flattens the extra block into a converter configuration map.
func (j *jobFile) extraConfig() (convert.Config, error) {
	if j.Extra == nil {
		return nil, nil
	}
	attrs, diags := j.Extra.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read extra block: %w", diags)
	}

	cfg := make(convert.Config, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate extra.%s: %w", name, diags)
		}
		goVal, err := ctyValueToInterface(val)
		if err != nil {
			return nil, fmt.Errorf("extra.%s: %w", name, err)
		}
		cfg[name] = goVal
	}
	return cfg, nil
}

// ctyValueToInterface converts a cty.Value to a Go interface{}. Whole
// numbers come out as int64 so integer converter keys resolve.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			if f == math.Trunc(f) && !math.IsInf(f, 0) {
				return int64(f), nil
			}
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
