package secondary

import "context"

// Compiler invokes the native toolchain against a submitted source
// file. The binary is written into workDir. Non-zero exit, toolchain
// crash and compile timeout all surface as *domain.CompileError.
type Compiler interface {
	Compile(ctx context.Context, sourcePath, workDir string) (binaryPath string, err error)
}
