// Package main provides the Hummingbird model conversion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jshuadvd/hummingbird/onnxml"
)

const version = "v0.1.0-dev"

// config carries process-level settings read from the environment. A job
// file's device setting overrides HB_DEVICE for that run.
type config struct {
	LogLevel string `env:"HB_LOG_LEVEL" envDefault:"info"`
	Device   string `env:"HB_DEVICE" envDefault:"cpu"`
}

func loadConfig() (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Hummingbird %s\n", version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 2 {
		logger := initLogger(cfg.LogLevel)
		defer logger.Sync()

		switch os.Args[1] {
		case "inspect":
			err = runInspect(os.Args[2])
		case "convert":
			err = runConvert(os.Args[2], cfg, logger)
		default:
			err = fmt.Errorf("unknown command %q", os.Args[1])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Hummingbird - Traditional ML Models as Tensor Computations")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                Show version")
	fmt.Println("  inspect <model.onnx>   Summarize a serialized model")
	fmt.Println("  convert <job.hcl>      Run a conversion job")
}

// runInspect prints the display summary of a serialized model.
func runInspect(path string) error {
	model, err := onnxml.ParseFile(path)
	if err != nil {
		return err
	}
	info := onnxml.Summarize(model)

	fmt.Printf("Graph:        %s\n", info.GraphName)
	fmt.Printf("Producer:     %s %s\n", info.ProducerName, info.ProducerVersion)
	fmt.Printf("IR version:   %d\n", info.IRVersion)
	fmt.Printf("Opset:        ai.onnx %d", info.OpsetVersion)
	if info.MLOpsetVersion > 0 {
		fmt.Printf(", ai.onnx.ml %d", info.MLOpsetVersion)
	}
	fmt.Println()
	fmt.Printf("Nodes:        %d (%d initializers)\n", info.NumNodes, info.NumInitializers)
	fmt.Printf("Operators:    %v\n", info.OpTypes)
	fmt.Printf("Inputs:       %v\n", info.Inputs)
	fmt.Printf("Outputs:      %v\n", info.Outputs)
	return nil
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
