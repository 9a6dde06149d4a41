package declorder

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func setOrder(t *testing.T, value string) {
	t.Helper()
	prev := orderFlag
	if err := Analyzer.Flags.Set("order", value); err != nil {
		t.Fatalf("set -order: %v", err)
	}
	t.Cleanup(func() { orderFlag = prev })
}

// NOT parallel: tests share Analyzer.Flags state.
func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.RunWithSuggestedFixes(t, testdata, Analyzer, "basic", "trailing")
	analysistest.Run(t, testdata, Analyzer, "ordered", "generated")
}

func TestAnalyzerCustomOrder(t *testing.T) {
	setOrder(t, "type,func")
	analysistest.RunWithSuggestedFixes(t, analysistest.TestData(), Analyzer, "custom")
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{spec: "const,var,type,func"},
		{spec: " func , type "},
		{spec: "const,,var"},
		{spec: "import,func", wantErr: true},
		{spec: "", wantErr: true},
		{spec: "func,func", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := Policy(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Policy(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}

	p, err := Policy("func, type")
	if err != nil {
		t.Fatal(err)
	}
	if p.Rank("func") >= p.Rank("type") {
		t.Errorf("expected func before type")
	}
	if p.Has("const") {
		t.Errorf("const must stay unranked")
	}
}
