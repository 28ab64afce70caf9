package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goffas/pkg/goff"
	"goffas/pkg/program"
)

const testProgram = `
sections:
  - name: PROG
    kind: sd
  - id: code
    name: C_CODE64
    kind: ed
    parent: PROG
    executable: true
directives:
  - section: code
  - symbol: main
    attr: global
  - label: main
  - bytes: 07fe
  - symbol: main
    attr: cold
`

func newTestState(t *testing.T, env map[string]string) (*globalState, *logtest.Hook, *bytes.Buffer) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	stdout := &bytes.Buffer{}
	gs := &globalState{
		fs:     afero.NewMemMapFs(),
		stdout: stdout,
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		logger: logger,
	}
	require.NoError(t, afero.WriteFile(gs.fs, "/src/prog.yaml", []byte(testProgram), 0o644))
	return gs, hook, stdout
}

func TestAssembleCommand(t *testing.T) {
	t.Parallel()

	gs, hook, _ := newTestState(t, nil)
	require.NoError(t, execute(gs, []string{"assemble", "/src/prog.yaml"}))

	data, err := afero.ReadFile(gs.fs, "/src/prog.o")
	require.NoError(t, err)
	obj, err := goff.ReadObject(data)
	require.NoError(t, err)
	require.Len(t, obj.ESDs, 3)
	assert.Equal(t, "main", obj.ESDs[2].Name)
	assert.Equal(t, []byte{0x07, 0xfe}, obj.Text(2))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["symbol"] == "main" {
			warned = true
		}
	}
	assert.True(t, warned, "cold should be reported as unsupported")
}

func TestAssembleCommandOutput(t *testing.T) {
	t.Parallel()

	t.Run("env", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, map[string]string{"GOFFAS_OUTPUT": "/out/env.o"})
		require.NoError(t, execute(gs, []string{"assemble", "/src/prog.yaml"}))
		ok, err := afero.Exists(gs.fs, "/out/env.o")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, map[string]string{"GOFFAS_OUTPUT": "/out/env.o"})
		require.NoError(t, execute(gs, []string{"assemble", "-o", "/out/flag.o", "/src/prog.yaml"}))
		ok, err := afero.Exists(gs.fs, "/out/flag.o")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = afero.Exists(gs.fs, "/out/env.o")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAssembleCommandUnhandledPolicy(t *testing.T) {
	t.Parallel()

	t.Run("flag", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, nil)
		err := execute(gs, []string{"assemble", "--unhandled-attrs", "error", "/src/prog.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("env", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, map[string]string{"GOFFAS_UNHANDLED_ATTRS": "error"})
		err := execute(gs, []string{"assemble", "/src/prog.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Parallel()
		gs, hook, _ := newTestState(t, map[string]string{"GOFFAS_UNHANDLED_ATTRS": "error"})
		require.NoError(t, execute(gs, []string{"assemble", "--unhandled-attrs", "ignore", "/src/prog.yaml"}))
		for _, e := range hook.AllEntries() {
			assert.NotEqual(t, logrus.WarnLevel, e.Level)
		}
	})

	t.Run("bad value", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, nil)
		err := execute(gs, []string{"assemble", "--unhandled-attrs", "shrug", "/src/prog.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
	})
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	t.Run("missing program", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, nil)
		err := execute(gs, []string{"assemble", "/src/none.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
	})

	t.Run("read-only output", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, nil)
		gs.fs = afero.NewReadOnlyFs(gs.fs)
		err := execute(gs, []string{"assemble", "/src/prog.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitWriteFailure, exitCodeOf(err))
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, map[string]string{"GOFFAS_LOG_LEVEL": "loud"})
		err := execute(gs, []string{"assemble", "/src/prog.yaml"})
		require.Error(t, err)
		assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
	})

	t.Run("wrong arguments", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newTestState(t, nil)
		err := execute(gs, []string{"assemble"})
		require.Error(t, err)
		assert.Equal(t, ExitGenericError, exitCodeOf(err))
	})
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	gs, _, _ := newTestState(t, map[string]string{"GOFFAS_LOG_LEVEL": "warn"})
	require.NoError(t, execute(gs, []string{"assemble", "/src/prog.yaml"}))
	assert.Equal(t, logrus.WarnLevel, gs.logger.GetLevel())

	gs, _, _ = newTestState(t, map[string]string{"GOFFAS_LOG_LEVEL": "warn"})
	require.NoError(t, execute(gs, []string{"--log-level", "debug", "assemble", "/src/prog.yaml"}))
	assert.Equal(t, logrus.DebugLevel, gs.logger.GetLevel())
}

func TestDumpCommand(t *testing.T) {
	t.Parallel()

	gs, _, stdout := newTestState(t, nil)
	require.NoError(t, execute(gs, []string{"assemble", "-o", "/prog.o", "/src/prog.yaml"}))
	require.NoError(t, execute(gs, []string{"dump", "/prog.o"}))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "HDR"))
	assert.Contains(t, lines[3], "main")
	assert.True(t, strings.HasPrefix(lines[4], "TXT"))
	assert.Contains(t, lines[5], "records=")

	require.NoError(t, afero.WriteFile(gs.fs, "/junk.o", []byte("not an object"), 0o644))
	err := execute(gs, []string{"dump", "/junk.o"})
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, exitCodeOf(err))
}

func TestReadEnvConfig(t *testing.T) {
	t.Parallel()

	conf, err := readEnvConfig(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), conf)

	env := map[string]string{
		"GOFFAS_LOG_LEVEL":       "debug",
		"GOFFAS_UNHANDLED_ATTRS": "ignore",
		"GOFFAS_OUTPUT":          "a.o",
	}
	conf, err = readEnvConfig(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:  logrus.DebugLevel,
		Unhandled: program.UnhandledIgnore,
		Output:    "a.o",
	}, conf)
}
