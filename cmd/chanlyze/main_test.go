package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/youtube"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    mode
		wantErr bool
	}{
		{"NoArgs", nil, modeTUI, false},
		{"Version", []string{"-v"}, modeVersion, false},
		{"VersionLong", []string{"--version"}, modeVersion, false},
		{"Help", []string{"--help"}, modeHelp, false},
		{"Analyze", []string{"--analyze", "https://www.youtube.com/@x"}, modeAnalyze, false},
		{"AnalyzeMissingURL", []string{"--analyze"}, 0, true},
		{"Compare", []string{"--compare", "@a", "@b"}, modeCompare, false},
		{"CompareOneURL", []string{"--compare", "@a"}, 0, true},
		{"Search", []string{"--search", "cooking"}, modeSearch, false},
		{"Unknown", []string{"--frobnicate"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.wantErr {
				if !errors.Is(err, errUsage) {
					t.Errorf("parseArgs(%v) error = %v, want errUsage", tt.args, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs(%v) failed: %v", tt.args, err)
			}
			if got.mode != tt.want {
				t.Errorf("mode = %s, want %s", got.mode, tt.want)
			}
		})
	}
}

type fakeAnalyzer struct {
	err      error
	gotURLs  []string
	gotQuery string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, channelURL string) (*models.Analysis, error) {
	f.gotURLs = append(f.gotURLs, channelURL)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Analysis{Data: models.ChannelData{Channel: models.ChannelRecord{Title: "Alpha"}}}, nil
}

func (f *fakeAnalyzer) Compare(_ context.Context, a, b string) (*models.ComparisonReport, error) {
	f.gotURLs = append(f.gotURLs, a, b)
	return &models.ComparisonReport{Comparison: models.Comparison{Winner: "UCalpha", Labels: map[string]string{"UCalpha": "Alpha"}}}, nil
}

func (f *fakeAnalyzer) Search(_ context.Context, query string, n int) (*youtube.SearchResult, error) {
	f.gotQuery = query
	return &youtube.SearchResult{Query: query, Items: make([]youtube.SearchItem, 0, n)}, nil
}

func TestRunHeadless_Analyze(t *testing.T) {
	svc := &fakeAnalyzer{}
	var out bytes.Buffer

	err := runHeadless(context.Background(), svc, invocation{mode: modeAnalyze, args: []string{"@alpha"}}, &out)
	if err != nil {
		t.Fatalf("runHeadless() failed: %v", err)
	}

	var decoded models.Analysis
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if decoded.Data.Channel.Title != "Alpha" {
		t.Errorf("title = %q", decoded.Data.Channel.Title)
	}
}

func TestRunHeadless_Compare(t *testing.T) {
	svc := &fakeAnalyzer{}
	var out bytes.Buffer

	if err := runHeadless(context.Background(), svc, invocation{mode: modeCompare, args: []string{"@a", "@b"}}, &out); err != nil {
		t.Fatalf("runHeadless() failed: %v", err)
	}
	if len(svc.gotURLs) != 2 || svc.gotURLs[1] != "@b" {
		t.Errorf("urls = %v", svc.gotURLs)
	}
	if !strings.Contains(out.String(), `"winner": "UCalpha"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunHeadless_Search(t *testing.T) {
	svc := &fakeAnalyzer{}
	var out bytes.Buffer

	if err := runHeadless(context.Background(), svc, invocation{mode: modeSearch, args: []string{"cooking"}}, &out); err != nil {
		t.Fatalf("runHeadless() failed: %v", err)
	}
	if svc.gotQuery != "cooking" || !strings.Contains(out.String(), `"query": "cooking"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestRunHeadless_Error(t *testing.T) {
	svc := &fakeAnalyzer{err: youtube.ErrChannelNotFound}
	var out bytes.Buffer

	err := runHeadless(context.Background(), svc, invocation{mode: modeAnalyze, args: []string{"@gone"}}, &out)
	if err == nil || err.Error() != "Channel not found" {
		t.Errorf("err = %v, want a friendly message", err)
	}
	if out.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestRunHeadless_NotHeadless(t *testing.T) {
	if err := runHeadless(context.Background(), &fakeAnalyzer{}, invocation{mode: modeTUI}, &bytes.Buffer{}); err == nil {
		t.Error("TUI mode is not headless")
	}
}

func TestRunHeadless_RetryableError(t *testing.T) {
	svc := &fakeAnalyzer{err: youtube.ErrNetworkTimeout}

	err := runHeadless(context.Background(), svc, invocation{mode: modeAnalyze, args: []string{"@slow"}}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "run again") {
		t.Errorf("err = %v, want a retry hint", err)
	}
}
