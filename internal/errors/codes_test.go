package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"PAR001", PAR001, "parse", "syntax"},
		{"PAR002", PAR002, "parse", "structure"},

		{"LFT001", LFT001, "lift", "skip"},
		{"LFT003", LFT003, "lift", "namespace"},
		{"LFT006", LFT006, "lift", "rename"},

		{"ANL001", ANL001, "analyze", "classification"},
		{"ANL003", ANL003, "analyze", "acquires"},

		{"XFM002", XFM002, "transform", "collection"},
		{"XFM004", XFM004, "transform", "dispatch"},

		{"SPX001", SPX001, "specext", "aborts_if"},
		{"PRN001", PRN001, "print", "node"},

		{"PIP001", PIP001, "pipeline", "degradation"},
		{"PIP003", PIP003, "pipeline", "manifest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := GetErrorInfo(tt.code)
			if !ok {
				t.Fatalf("GetErrorInfo(%s) not found", tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("Phase = %q, want %q", info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("Category = %q, want %q", info.Category, tt.category)
			}
		})
	}
}

func TestGetErrorInfoMiss(t *testing.T) {
	if _, ok := GetErrorInfo("NOPE999"); ok {
		t.Errorf("GetErrorInfo(NOPE999) unexpectedly found")
	}
}

func TestPhasePredicates(t *testing.T) {
	if !IsLiftError(LFT002) {
		t.Errorf("IsLiftError(LFT002) = false, want true")
	}
	if IsLiftError(ANL001) {
		t.Errorf("IsLiftError(ANL001) = true, want false")
	}
	if !IsAnalyzerError(ANL002) {
		t.Errorf("IsAnalyzerError(ANL002) = false, want true")
	}
	if !IsTransformError(XFM003) {
		t.Errorf("IsTransformError(XFM003) = false, want true")
	}
	if !IsPipelineError(PIP002) {
		t.Errorf("IsPipelineError(PIP002) = false, want true")
	}
}
