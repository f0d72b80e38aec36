package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newrelic/lxc-free/src/raw"
)

const meminfo = `MemTotal:        8048012 kB
MemFree:         1234567 kB
MemAvailable:    4567890 kB
Buffers:          123456 kB
Cached:          2345678 kB
SwapTotal:       2097148 kB
SwapFree:        2097148 kB
`

// newHostRoot returns a folder laid out like a host root filesystem with a single LXC container, c1,
// using 100MiB of memory without limit.
func newHostRoot(t *testing.T) string {
	t.Helper()
	t.Setenv("HOST_PROC", "")

	root := t.TempDir()
	files := map[string]string{
		"proc/meminfo": meminfo,
		"sys/fs/cgroup/lxc.payload.c1/memory.current": "104857600\n",
		"sys/fs/cgroup/lxc.payload.c1/memory.max":     "max\n",
		"proc/4242/cgroup":                            "0::/lxc.payload.c1\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewCommand("1.0.0", "abcdef", "2025-01-01")
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommand_Human(t *testing.T) {
	root := newHostRoot(t)

	out, err := execute(t, "--human", "--host-root", root, "c1")
	require.NoError(t, err)

	assert.Equal(t, ""+
		"               total        used        free\n"+
		"Mem:          100.0M      100.0M        0.0B\n"+
		"Swap:           0.0B        0.0B        0.0B\n", out)
}

func TestCommand_Mebi(t *testing.T) {
	root := newHostRoot(t)

	out, err := execute(t, "-m", "--host-root", root, "c1")
	require.NoError(t, err)

	assert.Equal(t, ""+
		"               total        used        free\n"+
		"Mem:             100         100           0\n"+
		"Swap:              0           0           0\n", out)
}

func TestCommand_CgroupDirectory(t *testing.T) {
	root := newHostRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sys/fs/cgroup/lxc.payload.c1/memory.max"), []byte("536870912\n"), 0o600))

	out, err := execute(t, "--host-root", root, filepath.Join(root, "sys/fs/cgroup/lxc.payload.c1"))
	require.NoError(t, err)

	assert.Equal(t, ""+
		"               total        used        free\n"+
		"Mem:          524288      102400      421888\n"+
		"Swap:              0           0           0\n", out)
}

func TestCommand_CgroupRoot(t *testing.T) {
	root := newHostRoot(t)
	group := filepath.Join(root, "cgroup2", "lxc", "c1")
	require.NoError(t, os.MkdirAll(group, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(group, "memory.current"), []byte("1048576\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(group, "memory.max"), []byte("2097152\n"), 0o600))

	expected := "Mem:               2           1           1\n"

	t.Run("configured", func(t *testing.T) {
		out, err := execute(t, "-m", "--host-root", root, "--cgroup-root", "/cgroup2", "c1")
		require.NoError(t, err)
		assert.Contains(t, out, expected)
	})

	t.Run("read from the mount table", func(t *testing.T) {
		mounts := "cgroup2 " + filepath.Join(root, "cgroup2") + " cgroup2 rw,nosuid,nodev,noexec,relatime 0 0\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "proc", "mounts"), []byte(mounts), 0o600))

		out, err := execute(t, "-m", "--host-root", root, "c1")
		require.NoError(t, err)
		assert.Contains(t, out, expected)
	})
}

func TestCommand_PID(t *testing.T) {
	root := newHostRoot(t)

	out, err := execute(t, "-m", "--pid", "--host-root", root, "4242")
	require.NoError(t, err)

	assert.Contains(t, out, "Mem:             100         100           0\n")
}

func TestCommand_Errors(t *testing.T) {
	root := newHostRoot(t)

	cases := []struct {
		name string
		args []string
		err  error
	}{
		{"unknown container", []string{"--host-root", root, "c2"}, raw.ErrCgroupNotFound},
		{"invalid pid", []string{"--pid", "--host-root", root, "c1"}, raw.ErrCgroupNotFound},
		{"unknown pid", []string{"--pid", "--host-root", root, "1111"}, raw.ErrCgroupNotFound},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := execute(t, c.args...)
			assert.ErrorIs(t, err, c.err)
			assert.Empty(t, out)
		})
	}
}

func TestCommand_MissingMeminfo(t *testing.T) {
	root := newHostRoot(t)
	require.NoError(t, os.Remove(filepath.Join(root, "proc", "meminfo")))

	out, err := execute(t, "--host-root", root, "c1")

	assert.ErrorIs(t, err, raw.ErrSystemInfo)
	assert.Empty(t, out)
}

func TestCommand_Usage(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "c1", "c2")
	assert.Error(t, err)

	_, err = execute(t, "-m", "-g", "c1")
	assert.Error(t, err)
}

func TestCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "-h, --human")
	assert.Contains(t, out, "-m, --mebi")
}

func TestCommand_ShowVersion(t *testing.T) {
	out, err := execute(t, "--show-version")
	require.NoError(t, err)

	assert.Contains(t, out, "LXC free Version: 1.0.0")
	assert.Contains(t, out, "GitCommit: abcdef")
}

type fakeInspector struct {
	pid     int
	running bool
	err     error
}

func (f fakeInspector) ContainerInspect(_ context.Context, _ string) (container.InspectResponse, error) {
	if f.err != nil {
		return container.InspectResponse{}, f.err
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			State: &container.State{Pid: f.pid, Running: f.running},
		},
	}, nil
}

func withInspector(t *testing.T, inspector raw.DockerInspector) *bool {
	t.Helper()
	closed := false
	original := dockerInspectorFn
	dockerInspectorFn = func(string) (raw.DockerInspector, func() error, error) {
		return inspector, func() error { closed = true; return nil }, nil
	}
	t.Cleanup(func() { dockerInspectorFn = original })
	return &closed
}

func TestCommand_Docker(t *testing.T) {
	root := newHostRoot(t)
	closed := withInspector(t, fakeInspector{pid: 4242, running: true})

	out, err := execute(t, "-m", "--docker", "--host-root", root, "web")
	require.NoError(t, err)

	assert.Contains(t, out, "Mem:             100         100           0\n")
	assert.True(t, *closed)
}

func TestCommand_DockerErrors(t *testing.T) {
	root := newHostRoot(t)

	cases := []struct {
		name      string
		inspector fakeInspector
	}{
		{"stopped container", fakeInspector{pid: 0, running: false}},
		{"unknown container", fakeInspector{err: errors.New("No such container: web")}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			withInspector(t, c.inspector)

			_, err := execute(t, "--docker", "--host-root", root, "web")
			assert.ErrorIs(t, err, raw.ErrCgroupNotFound)
		})
	}
}
