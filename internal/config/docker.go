package config

import "time"

type DockerConfig struct {
	// ImageNamespace prefixes every built image tag:
	// <namespace>/submission-<submission_id>.
	ImageNamespace string

	// Sandbox instance limits. One test case per instance.
	MemoryLimitBytes int64
	CPUShares        int64
	CpusetCpus       string

	// RunTimeout is the hard wall-clock bound per test execution.
	// A still-running instance is force stopped and its partial
	// output kept.
	RunTimeout time.Duration
}

func NewDockerConfig() *DockerConfig {
	return &DockerConfig{
		ImageNamespace:   envString("IMAGE_NAMESPACE", "gav-autograder"),
		MemoryLimitBytes: int64(envInt("SANDBOX_MEMORY_MB", 500)) * 1024 * 1024,
		CPUShares:        int64(envInt("SANDBOX_CPU_SHARES", 512)),
		CpusetCpus:       envString("SANDBOX_CPUSET", "0"),
		RunTimeout:       envSeconds("SANDBOX_RUN_TIMEOUT_SEC", 5*time.Second),
	}
}
