package conda_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/conda"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInstaller_Install(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	env := domain.NewEnvironment(testSpec(t))

	pins := []domain.Package{
		{Name: "numpy", Version: "1.11.1", Channel: "conda-forge"},
		{Name: "yt", Version: "3.3.5", Channel: "conda-forge"},
	}

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, vars []string, _, _ io.Writer) error {
			assert.Equal(t, []string{
				"conda", "install", "--yes", "--quiet", "--prefix", env.Prefix(),
				"--override-channels", "-c", "astropy", "-c", "conda-forge",
				"numpy==1.11.1", "yt==3.3.5",
			}, cmd.Args)
			assert.Equal(t, env.Env(), vars)
			return nil
		})

	next, err := conda.NewInstaller(executor, "").Install(context.Background(), env, pins, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, pins, next.Packages())
	assert.Empty(t, env.Packages(), "input descriptor must stay unchanged")
	assert.NotEqual(t, env.ID(), next.ID())
}

func TestInstaller_NoPins(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	env := domain.NewEnvironment(testSpec(t))

	next, err := conda.NewInstaller(executor, "").Install(context.Background(), env, nil, io.Discard)
	require.NoError(t, err)
	assert.Same(t, env, next)
}

func TestInstaller_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	env := domain.NewEnvironment(testSpec(t))

	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("UnsatisfiableError"))

	_, err := conda.NewInstaller(executor, "").Install(context.Background(), env,
		[]domain.Package{{Name: "h5py", Version: "2.6.0"}}, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInstallFailed)
}

func TestInstaller_MissingEnvironment(t *testing.T) {
	_, err := conda.NewInstaller(nil, "").Install(context.Background(), nil, nil, io.Discard)
	assert.ErrorIs(t, err, domain.ErrEnvironmentMissing)
}
