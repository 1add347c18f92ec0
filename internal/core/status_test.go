package core_test

import (
	"errors"
	"fmt"
	"testing"

	"minigold/internal/core"
)

func TestStatus_Taxonomy(t *testing.T) {
	want := []struct {
		code   core.Status
		label  string
		color  string
		locked bool
	}{
		{core.StatusPending, "New / Pending", "secondary", false},
		{core.StatusOnProcess, "On Process", "primary", true},
		{core.StatusPartiallyComplete, "Partially Complete", "warning", true},
		{core.StatusComplete, "Complete", "info", true},
		{core.StatusOnPackaging, "On Packaging", "dark", true},
		{core.StatusDelivered, "Delivered", "success", true},
	}
	all := core.Statuses()
	if len(all) != len(want) {
		t.Fatalf("Expected %d statuses, got %d", len(want), len(all))
	}
	for i, w := range want {
		info := w.code.Info()
		if info.Label != w.label || info.Color != w.color {
			t.Errorf("Status %d: expected %q/%q, got %q/%q", w.code, w.label, w.color, info.Label, info.Color)
		}
		if w.code.Locked() != w.locked {
			t.Errorf("Status %d: expected locked=%v", w.code, w.locked)
		}
		if all[i] != info {
			t.Errorf("Statuses()[%d] = %+v, want %+v", i, all[i], info)
		}
	}

	unknown := core.Status(9).Info()
	if unknown.Color != "light" {
		t.Errorf("Expected unknown status color light, got %q", unknown.Color)
	}
	if _, err := core.ParseStatus(9); core.KindOf(err) != core.KindValidation {
		t.Errorf("Expected validation error for unknown code, got %v", err)
	}
	if s, err := core.ParseStatus(4); err != nil || s != core.StatusOnPackaging {
		t.Errorf("ParseStatus(4) = %v, %v", s, err)
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want core.Kind
	}{
		{nil, core.KindUnknown},
		{errors.New("boom"), core.KindUnknown},
		{core.ErrValidation, core.KindValidation},
		{fmt.Errorf("x: %w", core.ErrNotFound), core.KindNotFound},
		{fmt.Errorf("x: %w", core.ErrStateViolation), core.KindStateViolation},
		{fmt.Errorf("x: %w", core.ErrPersistence), core.KindPersistence},
	}
	for _, tc := range cases {
		if got := core.KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
	if core.KindStateViolation.String() != "state_violation" {
		t.Errorf("Unexpected kind name %q", core.KindStateViolation.String())
	}
}
