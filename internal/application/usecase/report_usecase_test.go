package usecase

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/es-profile-report/internal/adapter/driven/input"
	"github.com/diillson/es-profile-report/internal/domain/entity"
	"github.com/diillson/es-profile-report/internal/logging"
	"github.com/diillson/es-profile-report/internal/shared/types"
	"github.com/diillson/es-profile-report/pkg/console"
)

type stubProfileRepo struct {
	data string
}

func (s *stubProfileRepo) LoadShards(_ context.Context, _ string) ([]entity.ShardRecord, error) {
	return input.ParseShards([]byte(s.data))
}

type fakeExportRepo struct {
	calls []string
	fail  map[string]error
}

func (f *fakeExportRepo) export(kind, filename, dir string) (string, error) {
	f.calls = append(f.calls, kind)
	if err := f.fail[kind]; err != nil {
		return "", err
	}
	return filepath.Join(dir, filename+"."+kind), nil
}

func (f *fakeExportRepo) ExportToCSV(_ entity.Report, filename, dir string) (string, error) {
	return f.export("csv", filename, dir)
}

func (f *fakeExportRepo) ExportToJSON(_ entity.Report, filename, dir string) (string, error) {
	return f.export("json", filename, dir)
}

func (f *fakeExportRepo) ExportToPDF(_ entity.Report, filename, dir string) (string, error) {
	return f.export("pdf", filename, dir)
}

type fakeStorageRepo struct {
	puts map[string]string
}

func (f *fakeStorageRepo) GetObject(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorageRepo) PutFile(_ context.Context, localPath, uri string) (string, error) {
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[localPath] = uri
	return uri, nil
}

func (f *fakeStorageRepo) CallerAccount(_ context.Context) (string, error) {
	return "123456789012", nil
}

type harness struct {
	uc      *ReportUseCase
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	exports *fakeExportRepo
	storage *fakeStorageRepo
}

func newHarness(data string) *harness {
	h := &harness{
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		exports: &fakeExportRepo{},
		storage: &fakeStorageRepo{},
	}
	h.uc = NewReportUseCase(
		&stubProfileRepo{data: data},
		h.exports,
		h.storage,
		console.NewConsoleWithWriters(h.out, h.errOut),
		logging.NewTestLogger(),
	)
	return h
}

func TestRunReport_AggregationScenario(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[{"id":"s0","aggregations":[{"time_in_nanos":2000,"description":"agg_root","children":[{"time_in_nanos":500,"description":"agg_child"}]}]}]}}`)

	err := h.uc.RunReport(context.Background(), &types.CLIArgs{})
	require.NoError(t, err)

	assert.Equal(t,
		"Shard: s0\n"+
			"> 2.0 ms (100 %) agg_root\n"+
			"   > 0.5 ms (25 %) agg_child\n"+
			"\n",
		h.out.String())
}

func TestRunReport_SearchesBeforeAggregations(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[
		{"id":"[n1][idx][0]",
		 "searches":[
			{"query":[
				{"type":"BooleanQuery","description":"+a +b","time_in_nanos":1000,"children":[
					{"type":"TermQuery","description":"a","time_in_nanos":400},
					{"type":"TermQuery","description":"b","time_in_nanos":300}
				]},
				{"type":"TermQuery","description":"second","time_in_nanos":10}
			],
			"rewrite_time":51443,
			"collector":[{"name":"SimpleTopScoreDocCollector","reason":"search_top_hits","time_in_nanos":32273}]}
		 ],
		 "aggregations":[{"type":"LongTermsAggregator","description":"my_terms","time_in_nanos":900}]},
		{"id":"[n1][idx][1]"}
	]}}`)

	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{}))

	assert.Equal(t,
		"Shard: [n1][idx][0]\n"+
			"> 1.0 ms (100 %) +a +b\n"+
			"   > 0.3 ms (30 %) b\n"+
			"   > 0.4 ms (40 %) a\n"+
			"> 0.01 ms (100 %) second\n"+
			"> 0.9 ms (100 %) my_terms\n"+
			"\n"+
			"Shard: [n1][idx][1]\n"+
			"\n",
		h.out.String())
}

func TestRunReport_Verbose(t *testing.T) {
	data := `{"profile":{"shards":[{"id":"s0","aggregations":[
		{"description":"agg","time_in_nanos":100,"breakdown":{"a":1,"b":2}}
	]}]}}`

	h := newHarness(data)
	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{Verbose: 2}))
	assert.Equal(t, "Shard: s0\n> 0.1 ms (100 %) agg\n a: 1\n b: 2\n\n", h.out.String())

	h = newHarness(data)
	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{}))
	assert.Equal(t, "Shard: s0\n> 0.1 ms (100 %) agg\n\n", h.out.String())
}

func TestRunReport_InputErrorsProduceNoReport(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"malformed JSON", "{not json", types.ErrMalformedInput},
		{"missing shards", `{"profile": {}}`, types.ErrMissingProfileData},
		{"missing profile", `{"took": 3}`, types.ErrMissingProfileData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.data)
			err := h.uc.RunReport(context.Background(), &types.CLIArgs{
				Summary:    true,
				Top:        3,
				ReportName: "r",
				ReportType: []string{"csv"},
			})

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, h.out.String())
			assert.Empty(t, h.exports.calls)
		})
	}
}

func TestRunReport_ColorOffKeepsPlainOutput(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[{"id":"s","aggregations":[
		{"description":"r","time_in_nanos":100,"children":[{"description":"hot","time_in_nanos":99}]}
	]}]}}`)

	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{HotThreshold: 10}))
	assert.Contains(t, h.out.String(), "   > 0.099 ms (99 %) hot\n")
	assert.NotContains(t, h.out.String(), "\x1b[")
}

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestRunReport_ColorHighlightsHotNodes(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	data := `{"profile":{"shards":[{"id":"s","aggregations":[
		{"description":"root","time_in_nanos":100,"children":[
			{"description":"hot","time_in_nanos":99},
			{"description":"cold","time_in_nanos":49}
		]}
	]}]}}`

	tests := []struct {
		name      string
		threshold int
		hot       []string
		plain     []string
	}{
		{"threshold 50", 50, []string{"hot"}, []string{"root", "cold"}},
		{"threshold 99 is inclusive", 99, []string{"hot"}, []string{"root", "cold"}},
		{"threshold 0 highlights every child", 0, []string{"hot", "cold"}, []string{"root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(data)
			require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{Color: true, HotThreshold: tt.threshold}))

			lines := map[string]string{}
			for _, line := range strings.Split(h.out.String(), "\n") {
				if i := strings.LastIndex(line, ") "); i >= 0 {
					lines[ansiSeq.ReplaceAllString(line[i+2:], "")] = line
				}
			}

			for _, name := range tt.hot {
				assert.Contains(t, lines[name], "\x1b[", name)
			}
			for _, name := range tt.plain {
				require.Contains(t, lines, name)
				assert.NotContains(t, lines[name], "\x1b[", name)
			}
		})
	}
}

func TestBuildReport_Summary(t *testing.T) {
	h := newHarness("")
	shards, err := input.ParseShards([]byte(`{"profile":{"shards":[{"id":"s0",
		"searches":[{"query":[{"description":"q","time_in_nanos":100,"children":[{"description":"c","time_in_nanos":40}]}]}],
		"aggregations":[{"description":"a","time_in_nanos":60},{"description":"b","time_in_nanos":5}]}]}}`))
	require.NoError(t, err)

	report := h.uc.BuildReport(shards, false)

	require.Len(t, report.Summary, 1)
	assert.Equal(t, entity.ShardSummary{
		ID:               "s0",
		QueryTrees:       1,
		AggregationTrees: 2,
		Nodes:            4,
		TotalNanos:       165,
	}, report.Summary[0])

	rows := report.Shards[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, entity.SourceQuery, rows[0].Source)
	assert.Equal(t, 0, rows[1].Tree)
	assert.Equal(t, int64(40), rows[1].Percent)
	assert.Equal(t, entity.SourceAggregation, rows[2].Source)
	assert.Equal(t, 1, rows[2].Tree)
	assert.Equal(t, 2, rows[3].Tree)
}

func TestTopNodes(t *testing.T) {
	h := newHarness("")
	shards, err := input.ParseShards([]byte(`{"profile":{"shards":[
		{"id":"a","aggregations":[{"description":"x","time_in_nanos":10,"children":[{"description":"y","time_in_nanos":30}]}]},
		{"id":"b","aggregations":[{"description":"z","time_in_nanos":30}]}
	]}}`))
	require.NoError(t, err)

	top := TopNodes(h.uc.BuildReport(shards, false), 2)

	require.Len(t, top, 2)
	assert.Equal(t, "[a] y", top[0].Label)
	assert.Equal(t, "[b] z", top[1].Label)
	assert.Equal(t, "0.03", top[0].Millis)

	assert.Len(t, TopNodes(h.uc.BuildReport(shards, false), 10), 3)
}

func TestRunReport_SummaryTable(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[{"id":"shard-7","aggregations":[{"description":"a","time_in_nanos":1500}]}]}}`)

	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{Summary: true}))

	out := h.out.String()
	assert.Contains(t, out, "Aggregation Trees")
	assert.Contains(t, out, "shard-7")
	assert.Contains(t, out, "1.5")
}

func TestRunReport_ExportAndUpload(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[{"id":"s0"}]}}`)
	h.exports.fail = map[string]error{"pdf": errors.New("disk full")}

	err := h.uc.RunReport(context.Background(), &types.CLIArgs{
		ReportName: "profile",
		ReportType: []string{"csv", "JSON", "pdf", "xml"},
		Dir:        "/tmp/out",
		Upload:     "s3://bucket/reports/",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"csv", "json", "pdf"}, h.exports.calls)
	assert.Equal(t, map[string]string{
		"/tmp/out/profile.csv":  "s3://bucket/reports/profile.csv",
		"/tmp/out/profile.json": "s3://bucket/reports/profile.json",
	}, h.storage.puts)

	errOut := h.errOut.String()
	assert.Contains(t, errOut, "disk full")
	assert.Contains(t, errOut, "xml")
	assert.Contains(t, errOut, "123456789012")
}

func TestRunReport_NoExportWithoutReportName(t *testing.T) {
	h := newHarness(`{"profile":{"shards":[]}}`)

	require.NoError(t, h.uc.RunReport(context.Background(), &types.CLIArgs{ReportType: []string{"csv"}}))
	assert.Empty(t, h.exports.calls)
	assert.Empty(t, h.out.String())
}
