package conda_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/conda"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func testSpec(t *testing.T) domain.EnvironmentSpec {
	t.Helper()
	return domain.EnvironmentSpec{
		Name:        "py2.7",
		Interpreter: "2.7",
		Prefix:      filepath.Join(t.TempDir(), "runs", "r1", "py2.7", "env"),
		Channels:    []string{"astropy", "conda-forge"},
		Variables:   map[string]string{domain.EncodingVariable: domain.DefaultEncoding},
	}
}

func TestProvisioner_Provision(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	spec := testSpec(t)

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, env []string, stdout, _ io.Writer) error {
			assert.Equal(t, []string{
				"conda", "create", "--yes", "--quiet", "--prefix", spec.Prefix,
				"--override-channels", "-c", "astropy", "-c", "conda-forge",
				"python=2.7",
			}, cmd.Args)
			assert.Contains(t, env, "PYTHONIOENCODING=utf-8")
			assert.Contains(t, env, "CONDA_PREFIX="+spec.Prefix)
			_, _ = io.WriteString(stdout, "done\n")
			return nil
		})

	var out bytes.Buffer
	env, err := conda.NewProvisioner(executor, "").Provision(context.Background(), spec, &out)
	require.NoError(t, err)

	assert.Equal(t, "2.7", env.Interpreter())
	assert.Equal(t, spec.Prefix, env.Prefix())
	assert.Equal(t, []string{"astropy", "conda-forge"}, env.Channels())
	assert.Empty(t, env.Packages())
	assert.Equal(t, "done\n", out.String())
	assert.DirExists(t, filepath.Dir(spec.Prefix))
}

func TestProvisioner_RefusesExistingPrefix(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	spec := testSpec(t)
	require.NoError(t, os.MkdirAll(spec.Prefix, domain.DirPerm))

	_, err := conda.NewProvisioner(executor, "").Provision(context.Background(), spec, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEnvironmentExists)
}

func TestProvisioner_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	spec := testSpec(t)

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("PackagesNotFoundError: python=2.7"))

	_, err := conda.NewProvisioner(executor, "/opt/conda/bin/conda").
		Provision(context.Background(), spec, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvisionFailed)
	assert.ErrorContains(t, err, "PackagesNotFoundError")
}

func TestProvisioner_CustomBinaryAndInterpreterPackage(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	spec := testSpec(t)
	spec.Interpreter = "3.5"
	spec.InterpreterPackage = "pypy"

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _ []string, _, _ io.Writer) error {
			assert.Equal(t, "micromamba", cmd.Args[0])
			assert.Equal(t, "pypy=3.5", cmd.Args[len(cmd.Args)-1])
			return nil
		})

	env, err := conda.NewProvisioner(executor, "micromamba").Provision(context.Background(), spec, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(spec.Prefix, "bin", "pypy"), env.Python())
}

func TestProvisioner_Destroy(t *testing.T) {
	spec := testSpec(t)
	require.NoError(t, os.MkdirAll(filepath.Join(spec.Prefix, "bin"), domain.DirPerm))

	p := conda.NewProvisioner(nil, "")
	require.NoError(t, p.Destroy(context.Background(), domain.NewEnvironment(spec)))
	assert.NoDirExists(t, spec.Prefix)

	require.NoError(t, p.Destroy(context.Background(), nil))
}
