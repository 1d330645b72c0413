package sites

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/probe"
)

const sample = `
sites:
  - name: Docs
    url: https://DOCS.example.com/
    expectedStatusCode: 204
    timeout: 1500
  - url: http://status.example.com:80
`

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "sites.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_ParsesAndNormalizes(t *testing.T) {
	list, err := Load(writeFile(t, t.TempDir(), sample))
	require.NoError(t, err)
	require.Equal(t, []Site{
		{Name: "Docs", URL: "https://docs.example.com", ExpectedStatusCode: 204, TimeoutMS: 1500},
		{Name: "http://status.example.com", URL: "http://status.example.com"},
	}, list)
	require.Equal(t, 1500*time.Millisecond, list[0].Timeout())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	list, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), list)

	list, err = Load("")
	require.NoError(t, err)
	require.Len(t, list, 4)
}

func TestLoad_ShippedConfigMatchesDefaults(t *testing.T) {
	list, err := Load(filepath.Join("..", "..", "configs", "sites.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), list)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":   "sites: [",
		"bad scheme": "sites:\n  - url: ftp://x\n",
		"no host":    "sites:\n  - url: https://\n",
		"negative":   "sites:\n  - url: https://a.example\n    timeout: -1\n",
		"duplicate":  "sites:\n  - url: https://a.example\n  - url: https://A.example/\n",
	}
	for name, body := range cases {
		_, err := Parse([]byte(body))
		require.Error(t, err, name)
	}
}

func TestRegistry_Target(t *testing.T) {
	reg := NewRegistry([]Site{{Name: "Docs", URL: "https://docs.example.com", ExpectedStatusCode: 204, TimeoutMS: 1500}})

	require.Equal(t,
		probe.Target{URL: "https://docs.example.com", ExpectedStatus: 204, Timeout: 1500 * time.Millisecond},
		reg.Target("https://DOCS.example.com:443/"))
	require.Equal(t,
		probe.Target{URL: "https://other.example"},
		reg.Target("https://other.example"))

	reg.Set(nil)
	_, ok := reg.Lookup("https://docs.example.com")
	require.False(t, ok)
	require.Empty(t, reg.List())
}

func TestRegistry_ListIsACopy(t *testing.T) {
	reg := NewRegistry(Defaults())
	list := reg.List()
	list[0].Name = "changed"
	require.Equal(t, "Camera", reg.List()[0].Name)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, sample)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan []Site, 64)
	done := make(chan error, 1)
	onChange := func(l []Site) {
		select {
		case changed <- l:
		default:
		}
	}
	go func() { done <- Watch(ctx, path, zap.NewNop(), onChange) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("sites:\n  - name: Only\n    url: https://only.example\n"), 0o644))

	// A truncating write can surface an empty intermediate list first.
	deadline := time.After(3 * time.Second)
	for {
		var list []Site
		select {
		case list = <-changed:
		case <-deadline:
			t.Fatal("no reload observed")
		}
		if len(list) == 1 {
			require.Equal(t, "Only", list[0].Name)
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
