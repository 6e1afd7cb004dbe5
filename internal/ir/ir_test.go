package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUintTypeString(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{8, "u8"},
		{64, "u64"},
		{128, "u128"},
		{256, "u256"},
	}
	for _, tt := range tests {
		if got := (UintType{Width: tt.width}).String(); got != tt.want {
			t.Errorf("UintType{%d}.String() = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestContractMutableNames(t *testing.T) {
	c := &Contract{
		StateVars: []*StateVar{
			{Name: "owner", Kind: VarImmutableKind},
			{Name: "count", Kind: VarMutableKind},
			{Name: "MAX", Kind: VarConstantKind},
			{Name: "fee", Kind: VarMutableKind},
		},
	}
	got := c.MutableNames()
	want := []string{"count", "fee"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MutableNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestContractErrorCodeTable(t *testing.T) {
	c := &Contract{
		ErrorCodes: []ErrorCode{
			{Name: "E_UNAUTHORIZED", Value: 1},
			{Name: "E_PAUSED", Value: 3},
		},
	}

	if got := c.NextErrorCodeValue(); got != 256 {
		t.Errorf("NextErrorCodeValue() on standard-only table = %d, want 256", got)
	}

	c.ErrorCodes = append(c.ErrorCodes, ErrorCode{Name: "E_INSUFFICIENT_BALANCE", Value: 256})
	if got := c.NextErrorCodeValue(); got != 257 {
		t.Errorf("NextErrorCodeValue() = %d, want 257", got)
	}

	code, ok := c.FindErrorCode("E_PAUSED")
	if !ok || code.Value != 3 {
		t.Errorf("FindErrorCode(E_PAUSED) = %+v, %v, want {E_PAUSED 3}, true", code, ok)
	}

	if _, ok := c.FindErrorCode("E_NOPE"); ok {
		t.Errorf("FindErrorCode(E_NOPE) unexpectedly found")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryAdminConfig, "admin-config"},
		{CategoryAggregatable, "aggregatable"},
		{CategoryUserKeyedMapping, "user-keyed-mapping"},
		{CategoryEventTrackable, "event-trackable"},
		{CategoryGeneral, "general"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}
