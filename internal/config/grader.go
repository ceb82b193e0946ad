package config

import "time"

type GraderConfig struct {
	// WorkRoot holds one working directory per submission:
	// <WorkRoot>/context-<submission_id>.
	WorkRoot string

	// DockerfilePath is the fixed runtime descriptor copied into every
	// build context.
	DockerfilePath string

	// CompileCommand is the native toolchain binary.
	CompileCommand string

	// CompileTimeout bounds pathological compiles (runaway template
	// expansion, huge diagnostics).
	CompileTimeout time.Duration
}

func NewGraderConfig() *GraderConfig {
	return &GraderConfig{
		WorkRoot:       envString("GRADER_WORK_ROOT", "/var/lib/gav-grader"),
		DockerfilePath: envString("GRADER_DOCKERFILE", "Dockerfile"),
		CompileCommand: envString("GRADER_COMPILER", "g++"),
		CompileTimeout: envSeconds("GRADER_COMPILE_TIMEOUT_SEC", 2*time.Second),
	}
}
