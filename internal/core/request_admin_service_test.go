package core_test

import (
	"io"
	"testing"

	"minigold/internal/core"
	"minigold/internal/store"
)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRequestAdmin_CreateStoresLinesAndAttachment(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	p2 := f.product(t, "Minigold Classic 10g", "10")

	id := f.requestAdmin(t, "Budi", line(p1, "10"), line(p2, "3"))

	got, err := f.admin.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != core.StatusPending {
		t.Errorf("Expected status Pending, got %s", got.Status)
	}
	if got.ProductionProcessID != nil {
		t.Errorf("Expected no production process, got %d", *got.ProductionProcessID)
	}
	if got.RequesterID != f.actor.UserID {
		t.Errorf("Expected requester %d, got %d", f.actor.UserID, got.RequesterID)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(got.Lines))
	}
	if !got.Lines[0].Qty.Equal(dec("10")) || got.Lines[0].ProductID != p1 {
		t.Errorf("Unexpected first line: %+v", got.Lines[0])
	}
	if got.FileName != "Budi.pdf" || got.FileKey == "" {
		t.Errorf("Expected attachment Budi.pdf with a key, got %q / %q", got.FileName, got.FileKey)
	}
	if f.files.Len() != 1 {
		t.Errorf("Expected 1 stored attachment, got %d", f.files.Len())
	}

	info, rc, err := f.admin.OpenAttachment(f.ctx, id)
	if err != nil {
		t.Fatalf("OpenAttachment failed: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.7 Budi.pdf" {
		t.Errorf("Unexpected attachment body %q", body)
	}
	if info.FileName != "Budi.pdf" {
		t.Errorf("Expected file name Budi.pdf, got %q", info.FileName)
	}
}

func TestRequestAdmin_CreateRequiresAttachment(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")

	_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		OrdererName: "Budi",
		Lines:       []core.LineInput{line(p1, "1")},
	})
	assertKind(t, err, core.KindValidation)
	if n := f.count(t, store.TableRequestAdmin); n != 0 {
		t.Errorf("Expected no request admin rows, got %d", n)
	}
}

func TestRequestAdmin_RejectsInvalidLines(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")

	cases := map[string][]core.LineInput{
		"no lines":      nil,
		"zero quantity": {line(p1, "0")},
		"no product":    {line(0, "1")},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
				OrdererName: "Budi",
				Lines:       lines,
				Attachment:  upload("x.pdf"),
			})
			assertKind(t, err, core.KindValidation)
		})
	}
	if f.files.Len() != 0 {
		t.Errorf("Expected no stored attachments, got %d", f.files.Len())
	}
}

func TestRequestAdmin_UnknownProductCleansUpAttachment(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		OrdererName: "Budi",
		Lines:       []core.LineInput{line(999, "1")},
		Attachment:  upload("x.pdf"),
	})
	assertKind(t, err, core.KindValidation)
	if f.files.Len() != 0 {
		t.Errorf("Expected uploaded attachment to be removed, %d remain", f.files.Len())
	}
	if n := f.count(t, store.TableRequestAdmin); n != 0 {
		t.Errorf("Expected no request admin rows, got %d", n)
	}
}

func TestRequestAdmin_EditReplacesLines(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	p2 := f.product(t, "Minigold Classic 10g", "10")
	id := f.requestAdmin(t, "Budi", line(p1, "10"), line(p2, "3"))

	_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		ID:          id,
		OrdererName: "Budi Santoso",
		Lines:       []core.LineInput{line(p2, "7")},
	})
	if err != nil {
		t.Fatalf("Save (edit) failed: %v", err)
	}

	got, err := f.admin.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("Expected exactly 1 line after edit, got %d", len(got.Lines))
	}
	if got.Lines[0].ProductID != p2 || !got.Lines[0].Qty.Equal(dec("7")) {
		t.Errorf("Unexpected line after edit: %+v", got.Lines[0])
	}
	if got.OrdererName != "Budi Santoso" {
		t.Errorf("Expected orderer to be updated, got %q", got.OrdererName)
	}
	if got.FileName != "Budi.pdf" {
		t.Errorf("Expected attachment to be kept, got %q", got.FileName)
	}
	if n := f.count(t, store.TableRequestAdminDetail); n != 1 {
		t.Errorf("Expected 1 detail row in total, got %d", n)
	}
}

func TestRequestAdmin_EditReplacesAttachment(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	id := f.requestAdmin(t, "Budi", line(p1, "1"))
	before, _ := f.admin.Get(f.ctx, id)

	_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		ID:          id,
		OrdererName: "Budi",
		Lines:       []core.LineInput{line(p1, "1")},
		Attachment:  upload("revised.pdf"),
	})
	if err != nil {
		t.Fatalf("Save (edit) failed: %v", err)
	}
	after, _ := f.admin.Get(f.ctx, id)
	if after.FileKey == before.FileKey {
		t.Errorf("Expected a new attachment key")
	}
	if after.FileName != "revised.pdf" {
		t.Errorf("Expected revised.pdf, got %q", after.FileName)
	}
	if f.files.Len() != 1 {
		t.Errorf("Expected the replaced attachment to be removed, %d stored", f.files.Len())
	}
}

func TestRequestAdmin_DeleteRemovesEverything(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	id := f.requestAdmin(t, "Budi", line(p1, "1"), line(p1, "2"))

	if err := f.admin.Delete(f.ctx, f.actor, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err := f.admin.Get(f.ctx, id)
	assertKind(t, err, core.KindNotFound)
	if n := f.count(t, store.TableRequestAdminDetail); n != 0 {
		t.Errorf("Expected detail rows to be deleted, got %d", n)
	}
	if f.files.Len() != 0 {
		t.Errorf("Expected attachment to be deleted, %d stored", f.files.Len())
	}
}

func TestRequestAdmin_DeleteUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)
	assertKind(t, f.admin.Delete(f.ctx, f.actor, 42), core.KindNotFound)
}

func TestRequestAdmin_LockedRejectsEditAndDelete(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	id := f.requestAdmin(t, "Budi", line(p1, "4"))
	f.startRun(t, id)

	_, err := f.admin.Save(f.ctx, f.actor, core.SaveRequestAdminInput{
		ID:          id,
		OrdererName: "Budi",
		Lines:       []core.LineInput{line(p1, "9")},
	})
	assertKind(t, err, core.KindStateViolation)

	assertKind(t, f.admin.Delete(f.ctx, f.actor, id), core.KindStateViolation)

	got, err := f.admin.Get(f.ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Lines) != 1 || !got.Lines[0].Qty.Equal(dec("4")) {
		t.Errorf("Expected locked lines to be unchanged, got %+v", got.Lines)
	}
	if f.files.Len() != 1 {
		t.Errorf("Expected attachment to survive, %d stored", f.files.Len())
	}
}

func TestRequestAdmin_Summarize(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Minigold Classic 5g", "5")
	p2 := f.product(t, "Minigold Garuda 5g", "5")
	p3 := f.product(t, "Minigold Classic 10g", "10")
	a1 := f.requestAdmin(t, "A1", line(p1, "10"), line(p3, "2"))
	a2 := f.requestAdmin(t, "A2", line(p1, "5"), line(p2, "1"))

	plan, err := f.admin.Summarize(f.ctx, []int64{a1, a2})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if len(plan.WeightClasses) != 2 {
		t.Fatalf("Expected 2 weight classes, got %d", len(plan.WeightClasses))
	}
	if w := plan.WeightClasses[0]; !w.WeightClass.Equal(dec("5")) || !w.Qty.Equal(dec("16")) {
		t.Errorf("Expected 5g x 16, got %s x %s", w.WeightClass, w.Qty)
	}
	if w := plan.WeightClasses[1]; !w.WeightClass.Equal(dec("10")) || !w.Qty.Equal(dec("2")) {
		t.Errorf("Expected 10g x 2, got %s x %s", w.WeightClass, w.Qty)
	}

	want := map[int64]string{p1: "15", p2: "1", p3: "2"}
	if len(plan.Products) != len(want) {
		t.Fatalf("Expected %d products, got %d", len(want), len(plan.Products))
	}
	for _, p := range plan.Products {
		if !p.Qty.Equal(dec(want[p.ProductID])) {
			t.Errorf("Product %d: expected qty %s, got %s", p.ProductID, want[p.ProductID], p.Qty)
		}
		if p.ProductName == "" {
			t.Errorf("Product %d: expected product name", p.ProductID)
		}
	}

	_, err = f.admin.Summarize(f.ctx, nil)
	assertKind(t, err, core.KindValidation)
}
