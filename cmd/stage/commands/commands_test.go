package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/cmd/stage/commands"
	"go.trai.ch/stage/internal/app"
	"go.trai.ch/stage/internal/build"
)

type mockApp struct {
	runFunc     func(ctx context.Context, opts app.RunOptions) error
	planFunc    func(ctx context.Context, opts app.PlanOptions) error
	resolveFunc func(ctx context.Context, opts app.ResolveOptions) error
	cleanFunc   func(ctx context.Context, opts app.CleanOptions) error
	statusFunc  func(ctx context.Context, opts app.StatusOptions) error
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Plan(ctx context.Context, opts app.PlanOptions) error {
	if m.planFunc != nil {
		return m.planFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Resolve(ctx context.Context, opts app.ResolveOptions) error {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Status(ctx context.Context, opts app.StatusOptions) error {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RunOptions
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "py2.7", "py3.5", "-p", "2", "--keep-env", "--keep-fixtures", "--no-coverage"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, app.RunOptions{
			Only:         []string{"py2.7", "py3.5"},
			Parallelism:  2,
			KeepEnv:      true,
			KeepFixtures: true,
			NoCoverage:   true,
		}, captured)
	})

	t.Run("runs every entry by default", func(t *testing.T) {
		var captured app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Empty(t, captured.Only)
		assert.Equal(t, 1, captured.Parallelism)
		assert.False(t, captured.NoCoverage)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Plan(t *testing.T) {
	var captured app.PlanOptions
	mock := &mockApp{
		planFunc: func(_ context.Context, opts app.PlanOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"plan", "py3.5", "--no-coverage"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.PlanOptions{Only: []string{"py3.5"}, NoCoverage: true}, captured)
}

func TestCommands_Resolve(t *testing.T) {
	var captured app.ResolveOptions
	mock := &mockApp{
		resolveFunc: func(_ context.Context, opts app.ResolveOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"resolve", "py2.7"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"py2.7"}, captured.Only)
}

func TestCommands_Status(t *testing.T) {
	var captured app.StatusOptions
	mock := &mockApp{
		statusFunc: func(_ context.Context, opts app.StatusOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"status", "py3.5"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"py3.5"}, captured.Only)
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{name: "default cleans records", args: []string{"clean"}, want: app.CleanOptions{Records: true}},
		{name: "tools", args: []string{"clean", "--tools"}, want: app.CleanOptions{Tools: true}},
		{name: "all", args: []string{"clean", "-a"}, want: app.CleanOptions{Records: true, Tools: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured app.CleanOptions
			mock := &mockApp{
				cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
					captured = opts
					return nil
				},
			}

			cli := commands.New(mock)
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, captured)
		})
	}

	t.Run("rejects arguments", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"clean", "extra"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "stage version "+build.Version)
}
