package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sphkmeans"
	"github.com/hupe1980/sphkmeans/blobstore"
	"github.com/hupe1980/sphkmeans/corpus"
	"github.com/hupe1980/sphkmeans/internal/config"
	"github.com/hupe1980/sphkmeans/testutil"
)

type cliTestEnv struct {
	dir     string
	input   string
	classes string
	corpus  *testutil.Corpus
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	dir := t.TempDir()
	c := testutil.NewRNG(7).ClusteredCorpus(3, 10, 6)

	env := &cliTestEnv{
		dir:     dir,
		input:   filepath.Join(dir, "docs.csv"),
		classes: filepath.Join(dir, "classes.csv"),
		corpus:  c,
	}
	require.NoError(t, os.WriteFile(env.input, []byte(c.InputText()), 0o600))
	require.NoError(t, os.WriteFile(env.classes, []byte(c.ClassText()), 0o600))
	return env
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readLines(t *testing.T, r io.Reader) []string {
	t.Helper()
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestRun_Summary(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.dir, "out.csv")

	stdout, _, err := execute(env.input, env.classes, "3", "5", output)
	require.NoError(t, err)

	for _, want := range []string{"avg iter: ", "seed: ", "obj: ", "entropy: ", "purity: ", "topic-00", "topic-02", "cluster"} {
		assert.Contains(t, stdout, want)
	}

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	lines := readLines(t, f)
	require.Len(t, lines, len(env.corpus.DocIDs))
	assert.True(t, strings.HasPrefix(lines[0], "1000,"))
}

func TestRun_JSON(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.dir, "out.csv.zst")

	stdout, _, err := execute("--json", "--parallel", "2", env.input, env.classes, "3", "4", output)
	require.NoError(t, err)

	var got struct {
		K           int                     `json:"k"`
		Seed        int64                   `json:"seed"`
		Purity      float64                 `json:"purity"`
		Classes     []string                `json:"classes"`
		Sizes       []int                   `json:"sizes"`
		Contingency [][]int                 `json:"contingency"`
		Trials      []sphkmeans.TrialResult `json:"trials"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, 3, got.K)
	assert.Equal(t, env.corpus.Topics, got.Classes)
	assert.Len(t, got.Trials, 4)
	assert.Len(t, got.Contingency, 3)
	assert.Greater(t, got.Purity, 0.0)

	total := 0
	for _, n := range got.Sizes {
		total += n
	}
	assert.Equal(t, len(env.corpus.DocIDs), total)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	dec, err := corpus.Decompress(output, f)
	require.NoError(t, err)
	defer dec.Close()
	assert.Len(t, readLines(t, dec), len(env.corpus.DocIDs))
}

func TestRun_ConfigFile(t *testing.T) {
	env := setupCLITestEnv(t)
	cfgPath := filepath.Join(env.dir, "sphkmeans.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[clustering]
seeds = [5, 9]

[logging]
format = "json"
level = "info"
`), 0o600))

	stdout, stderr, err := execute("--config", cfgPath, "--json", env.input, env.classes, "3", "10", filepath.Join(env.dir, "out.csv"))
	require.NoError(t, err)

	var got struct {
		Trials []sphkmeans.TrialResult `json:"trials"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Trials, 2)
	assert.Equal(t, int64(5), got.Trials[0].Seed)
	assert.Equal(t, int64(9), got.Trials[1].Seed)

	assert.Contains(t, stderr, `"msg":"corpus loaded"`)
	assert.Contains(t, stderr, `"msg":"run completed"`)
}

func TestRun_Errors(t *testing.T) {
	env := setupCLITestEnv(t)
	output := filepath.Join(env.dir, "out.csv")

	t.Run("argument count", func(t *testing.T) {
		_, _, err := execute(env.input, env.classes, "3", "5")
		require.Error(t, err)
	})

	t.Run("clusters", func(t *testing.T) {
		_, _, err := execute(env.input, env.classes, "three", "5", output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "#clusters")
	})

	t.Run("trials", func(t *testing.T) {
		_, _, err := execute(env.input, env.classes, "3", "x", output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "#trials")
	})

	t.Run("invalid k", func(t *testing.T) {
		_, _, err := execute(env.input, env.classes, "0", "5", output)
		assert.ErrorIs(t, err, sphkmeans.ErrInvalidK)
	})

	t.Run("too many classes", func(t *testing.T) {
		_, _, err := execute("--true-k", "2", env.input, env.classes, "3", "5", output)
		assert.ErrorIs(t, err, corpus.ErrTooManyClasses)
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := execute(filepath.Join(env.dir, "missing.csv"), env.classes, "3", "5", output)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("log format", func(t *testing.T) {
		_, _, err := execute("--log-format", "xml", env.input, env.classes, "3", "5", output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging.format")
	})

	_, err := os.Stat(output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		path    string
		want    location
		wantErr bool
	}{
		{path: "docs.csv", want: location{name: "docs.csv"}},
		{path: "/tmp/docs.csv.zst", want: location{name: "/tmp/docs.csv.zst"}},
		{path: "s3://corpora/news/docs.csv", want: location{scheme: "s3", bucket: "corpora", name: "news/docs.csv"}},
		{path: "minio://corpora/docs.csv", want: location{scheme: "minio", bucket: "corpora", name: "docs.csv"}},
		{path: "s3://corpora", wantErr: true},
		{path: "minio:///docs.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := parseLocation(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_Remote(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	st := newStorage(&cfg, nil)

	mem := blobstore.NewMemoryStore()
	mem.Put("docs.csv", []byte("1,0,2\n"))
	st.stores["s3://corpora"] = mem

	r, err := st.open(ctx, "s3://corpora/docs.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "1,0,2\n", string(data))

	err = st.create(ctx, "s3://corpora/out/labels.csv.lz4", func(w io.Writer) error {
		return corpus.WriteAssignment(w, []int{1, 2}, []int{0, 1})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.csv", "out/labels.csv.lz4"}, mem.List(""))

	r, err = st.open(ctx, "s3://corpora/out/labels.csv.lz4")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, []string{"1,0", "2,1"}, readLines(t, r))

	_, err = st.open(ctx, "s3://corpora/missing.csv")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStorage_MinIONotConfigured(t *testing.T) {
	cfg := config.Default()
	st := newStorage(&cfg, nil)

	_, err := st.open(context.Background(), "minio://corpora/docs.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio.endpoint")
}

func TestStorage_CreateAborts(t *testing.T) {
	cfg := config.Default()
	st := newStorage(&cfg, nil)
	mem := blobstore.NewMemoryStore()
	st.stores["minio://corpora"] = mem

	boom := assert.AnError
	err := st.create(context.Background(), "minio://corpora/out.csv", func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mem.List(""))
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"cluster", "size", "a"},
		[][]string{{"0", "3", "3"}, {"1", "1"}},
		[]columnAlignment{alignRight, alignRight, alignRight},
		tableStylePlain,
	)
	assert.Contains(t, out, "CLUSTER")
	assert.Contains(t, out, "+")
	assert.Equal(t, "", renderTable(nil, nil, nil, tableStylePlain))

	rounded := renderTable([]string{"x"}, [][]string{{"1"}}, nil, tableStyleRounded)
	assert.Contains(t, rounded, "╭")
}

func TestTableStyleFor(t *testing.T) {
	assert.Equal(t, tableStylePlain, tableStyleFor(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, tableStylePlain, tableStyleFor(f))
}
