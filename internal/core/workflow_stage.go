package core

import (
	"time"

	"minigold/internal/store"
)

// stageDescriptor holds the per-stage table and column names so produksi and
// kemasan share one advance implementation.
type stageDescriptor struct {
	stage        Stage
	header       store.Table
	detail       store.Table
	join         store.Table
	idField      string
	statusField  string
	lineIDField  string
	actualField  string
	packagingRef string
	// packagingDate is the request_packaging column stamped when this stage triggers packaging.
	packagingDate string
	// packagingScope selects this stage's sub-kind of packaging lines.
	packagingScope store.Cond
	packagingLine  func(line store.Row) store.Row
}

var produksiStage = stageDescriptor{
	stage:          StageProduksi,
	header:         store.TableRequestProduksi,
	detail:         store.TableRequestProduksiDetail,
	join:           store.TableRequestAdminProduksi,
	idField:        "id_request_produksi",
	statusField:    "status_produksi",
	lineIDField:    "id_request_produksi_detail",
	actualField:    "qty_produksi",
	packagingRef:   "id_request_produksi",
	packagingDate:  "tgl_request_from_produksi",
	packagingScope: store.NotNull("produk_produksi"),
	packagingLine: func(line store.Row) store.Row {
		qty := line.Decimal("qty_request")
		return store.Row{
			"produk_produksi":   line.Decimal("kepingan"),
			"qty_product":       qty,
			"qty_keping":        qty,
			"final_qty_product": qty,
		}
	},
}

var kemasanStage = stageDescriptor{
	stage:          StageKemasan,
	header:         store.TableRequestKemasan,
	detail:         store.TableRequestKemasanDetail,
	join:           store.TableRequestAdminKemasan,
	idField:        "id_request_kemasan",
	statusField:    "status_kemasan",
	lineIDField:    "id_request_kemasan_detail",
	actualField:    "qty_kemasan",
	packagingRef:   "id_request_kemasan",
	packagingDate:  "tgl_request_from_kemasan",
	packagingScope: store.NotNull("id_product"),
	packagingLine: func(line store.Row) store.Row {
		qty := line.Decimal("qty_request")
		return store.Row{
			"id_product":        line.Int64("id_product"),
			"qty_product":       qty,
			"qty_keping":        qty,
			"final_qty_product": qty,
		}
	},
}

func (d stageDescriptor) recordFromRow(r store.Row) *StageRecord {
	return &StageRecord{
		Stage:       d.stage,
		ID:          r.Int64(d.idField),
		ProcessID:   r.Int64("id_production_process"),
		RequestDate: r.Time("tgl_request"),
		Notes:       r.String("keterangan"),
		Status:      Status(r.Int64(d.statusField)),
		PackagingID: r.NullInt64("id_request_packaging"),
		ChangedBy:   r.Int64("uid_changed"),
		Created:     r.Time("created"),
		Changed:     r.Time("changed"),
	}
}

func (d stageDescriptor) lineFromRow(r store.Row) StageLine {
	l := StageLine{
		ID:         r.Int64(d.lineIDField),
		QtyRequest: r.Decimal("qty_request"),
		QtyActual:  r.Decimal(d.actualField),
	}
	if d.stage == StageProduksi {
		l.Unit = r.String("satuan")
		l.WeightClass = r.Decimal("kepingan")
	} else {
		l.ProductID = r.Int64("id_product")
	}
	return l
}

func processFromRow(r store.Row) ProductionProcess {
	return ProductionProcess{
		ID:        r.Int64("id_production_process"),
		StartAt:   r.Time("tgl_start"),
		EndAt:     r.NullTime("tgl_end"),
		CreatedBy: r.Int64("uid_created"),
		ChangedBy: r.Int64("uid_changed"),
		Created:   r.Time("created"),
		Changed:   r.Time("changed"),
	}
}

func packagingFromRow(r store.Row) *Packaging {
	return &Packaging{
		ID:             r.Int64("id_request_packaging"),
		ProcessID:      r.Int64("id_production_process"),
		ProduksiID:     r.NullInt64("id_request_produksi"),
		KemasanID:      r.NullInt64("id_request_kemasan"),
		FromKemasanAt:  r.NullTime("tgl_request_from_kemasan"),
		FromProduksiAt: r.NullTime("tgl_request_from_produksi"),
		Status:         Status(r.Int64("status_packaging")),
		Notes:          r.String("keterangan"),
		ChangedBy:      r.Int64("uid_changed"),
		Created:        r.Time("created"),
		Changed:        r.Time("changed"),
	}
}

func packagingLineFromRow(r store.Row) PackagingLine {
	return PackagingLine{
		ID:          r.Int64("id_request_packaging_detail"),
		ProductID:   r.NullInt64("id_product"),
		WeightClass: r.NullDecimal("produk_produksi"),
		QtyProduct:  r.Decimal("qty_product"),
		QtyKeping:   r.Decimal("qty_keping"),
		FinalQty:    r.Decimal("final_qty_product"),
	}
}

func stamp(row store.Row, actor Actor, now time.Time) store.Row {
	row["uid_changed"] = actor.UserID
	row["changed"] = now
	return row
}
