package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/ndexsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"ndexsearch", "--log-level", "error"}, args...))
	return out.String(), err
}

// writeConfig writes a configuration whose only source is a keyword source
// backed by a fake NDEx server.
func writeConfig(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/search/network", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"numFound": 1,
			"networks": []map[string]any{
				{"externalId": "0f8fad5b-d9cb-469f-a165-70867728950e", "name": "TP53 pathway", "nodeCount": 3, "edgeCount": 2},
			},
		})
	})
	mux.HandleFunc("GET /v2/admin/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "Online", "networkCount": 7})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	sources := &core.SourceConfigurations{Sources: []core.SourceConfiguration{
		{Name: core.SourceKeyword, Endpoint: srv.URL, UUID: "keyword-uuid"},
	}}
	data, err := json.Marshal(sources)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "source.configurations.json"), data, 0o644))

	conf := fmt.Sprintf("search:\n  database:\n    dir: %s\nndex:\n  server: %s\n", dir, srv.URL)
	path := filepath.Join(dir, "ndexsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))
	return path
}

func TestSetupLogger(t *testing.T) {
	_, err := runApp(t, "--log-level", "verbose", "exampleconf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestExampleCommands(t *testing.T) {
	t.Run("exampleconf", func(t *testing.T) {
		out, err := runApp(t, "exampleconf")
		require.NoError(t, err)
		assert.Contains(t, out, "search:")
		assert.Contains(t, out, "configurations: source.configurations.json")
	})

	t.Run("examplesourceconfig", func(t *testing.T) {
		out, err := runApp(t, "examplesourceconfig")
		require.NoError(t, err)

		var scs core.SourceConfigurations
		require.NoError(t, json.Unmarshal([]byte(out), &scs))
		assert.Len(t, scs.Sources, 4)
	})
}

func TestQueryCommand(t *testing.T) {
	conf := writeConfig(t)

	t.Run("requires genes", func(t *testing.T) {
		_, err := runApp(t, "--conf", conf, "query")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gene")
	})

	t.Run("keyword search", func(t *testing.T) {
		out, err := runApp(t, "--conf", conf, "query", "--poll", "10ms", "--timeout", "5s", "TP53")
		require.NoError(t, err)

		var res core.QueryResults
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, core.StatusComplete, res.Status)
		assert.Equal(t, 100, res.Progress)
		assert.Equal(t, 1, res.NumberOfHits)
		require.Len(t, res.Sources, 1)
		assert.Equal(t, core.SourceKeyword, res.Sources[0].SourceName)
	})
}

func TestTaskCommands(t *testing.T) {
	conf := writeConfig(t)

	out, err := runApp(t, "--conf", conf, "query", "--poll", "10ms", "TP53")
	require.NoError(t, err)
	var submitted core.QueryResults
	require.NoError(t, json.Unmarshal([]byte(out), &submitted))

	dir := filepath.Dir(conf)
	entries, err := os.ReadDir(filepath.Join(dir, "tasks"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	id := entries[0].Name()

	t.Run("status", func(t *testing.T) {
		out, err := runApp(t, "--conf", conf, "status", id)
		require.NoError(t, err)
		var status core.QueryResults
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		assert.Equal(t, core.StatusComplete, status.Status)
		assert.Empty(t, status.Sources[0].Results)
	})

	t.Run("results", func(t *testing.T) {
		out, err := runApp(t, "--conf", conf, "results", "--source", core.SourceKeyword, id)
		require.NoError(t, err)
		var res core.QueryResults
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res.Sources, 1)
		assert.Len(t, res.Sources[0].Results, 1)
	})

	t.Run("status requires id", func(t *testing.T) {
		_, err := runApp(t, "--conf", conf, "status")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "task id")
	})

	t.Run("delete", func(t *testing.T) {
		out, err := runApp(t, "--conf", conf, "delete", id)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "deleted "))

		_, err = runApp(t, "--conf", conf, "status", id)
		require.Error(t, err)
	})
}

func TestSourcesCommand(t *testing.T) {
	conf := writeConfig(t)

	out, err := runApp(t, "--conf", conf, "sources")
	require.NoError(t, err)

	var catalog core.Catalog
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	require.Len(t, catalog.Results, 1)
	assert.Equal(t, core.CatalogStatusOK, catalog.Results[0].Status)
	assert.Equal(t, 7, catalog.Results[0].NumberOfNetworks)
}

func TestQueryCommandFlags(t *testing.T) {
	app := newApp()
	var query *cli.Command
	for _, cmd := range app.Commands {
		if cmd.Name == "query" {
			query = cmd
		}
	}
	require.NotNil(t, query)

	for _, flag := range query.Flags {
		switch f := flag.(type) {
		case *cli.DurationFlag:
			if f.Name == "poll" {
				assert.Equal(t, time.Second, f.Value)
			}
			if f.Name == "timeout" {
				assert.Equal(t, 10*time.Minute, f.Value)
			}
		case *cli.IntFlag:
			assert.Equal(t, "size", f.Name)
			assert.Contains(t, f.Usage, "across all sources")
		case *cli.StringSliceFlag:
			assert.Equal(t, "source", f.Name)
			assert.Empty(t, f.EnvVars)
		}
	}
}
