package core_test

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/DonovanMods/civ-mod-manager/internal/core"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func modinfoXML(id, version, name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Mod id="%s" version="%s" xmlns="ModInfo">
  <Properties>
    <Name>%s</Name>
    <Description>LOC_%s_DESCRIPTION</Description>
    <Authors>Test Author</Authors>
    <AffectsSavedGames>1</AffectsSavedGames>
  </Properties>
</Mod>
`, id, version, name, strings.ToUpper(id))
}

// writeMod creates a package folder at dir with a descriptor and one payload file.
func writeMod(t *testing.T, dir, id, version, name string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, id+".modinfo"), modinfoXML(id, version, name))
	writeFile(t, filepath.Join(dir, "data", "gameplay.xml"), "<Database/>")
}

func createZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(dir, name)
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, content := range files {
		fw, err := w.Create(entry)
		require.NoError(t, err)
		if !strings.HasSuffix(entry, "/") {
			_, err = fw.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	return zipPath
}

// builtinExtractor only uses the in-process zip backend
func builtinExtractor() *core.Extractor {
	return core.NewExtractor(core.ExtractorConfig{
		Runner:   newFakeRunner(nil),
		Tools:    []core.Tool{core.BuiltinZipTool()},
		Platform: "linux",
	})
}

// fakeRunner answers probes for the programs marked installed and hands
// every other invocation to extract.
type fakeRunner struct {
	mu        sync.Mutex
	tools     []core.Tool
	installed map[string]bool
	extract   func(ctx context.Context, argv []string) (core.CommandResult, error)
	calls     [][]string
}

func newFakeRunner(tools []core.Tool, installed ...string) *fakeRunner {
	f := &fakeRunner{tools: tools, installed: make(map[string]bool)}
	for _, name := range installed {
		f.installed[name] = true
	}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (core.CommandResult, error) {
	argv := append([]string{name}, args...)

	f.mu.Lock()
	f.calls = append(f.calls, argv)
	installed := f.installed[name]
	isProbe := slices.ContainsFunc(f.tools, func(tool core.Tool) bool {
		return slices.Equal(tool.Probe, argv)
	})
	f.mu.Unlock()

	if !installed {
		return core.CommandResult{}, errors.New("exec: executable file not found in $PATH")
	}
	if isProbe {
		return core.CommandResult{Stdout: name + " usage"}, nil
	}
	if f.extract == nil {
		return core.CommandResult{}, nil
	}
	return f.extract(ctx, argv)
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeRunner) countCalls(argv ...string) int {
	n := 0
	for _, call := range f.Calls() {
		if slices.Equal(call, argv) {
			n++
		}
	}
	return n
}

var _ core.CommandRunner = (*fakeRunner)(nil)
