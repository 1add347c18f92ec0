package store

import "fmt"

// Table identifies one relational table known to the store.
// Every table the workflow touches is declared here; call sites never pass raw table names.
type Table int

const (
	TableProduct Table = iota + 1
	TableRequestAdmin
	TableRequestAdminDetail
	TableProductionProcess
	TableRequestProduksi
	TableRequestProduksiDetail
	TableRequestKemasan
	TableRequestKemasanDetail
	TableRequestAdminProduksi
	TableRequestAdminKemasan
	TableRequestPackaging
	TableRequestPackagingDetail
	TableProductStock
	TableStockMovement
	TableUser
)

// TableSchema is the static descriptor of a table.
type TableSchema struct {
	Name    string
	IDField string
	// Columns lists every column including IDField.
	Columns []string
	// GridFields is the column list returned by listing grids; empty means not listable.
	GridFields []string
	// SearchFields are matched case-insensitively by FetchPage.
	SearchFields []string
	// StatusField, when set, gates edit/delete affordances: any value > 0 locks the row.
	StatusField string

	columnSet map[string]struct{}
}

// HasColumn reports whether col belongs to the table.
func (s TableSchema) HasColumn(col string) bool {
	_, ok := s.columnSet[col]
	return ok
}

func (t Table) String() string {
	if s, ok := registry[t]; ok {
		return s.Name
	}
	return fmt.Sprintf("Table(%d)", int(t))
}

var registry = map[Table]TableSchema{
	TableProduct: {
		Name:    "product",
		IDField: "product_id",
		Columns: []string{
			"product_id", "brand", "finest", "series", "tahun_release",
			"product_name", "gramasi", "ukuran", "finishing", "kategori_produk",
		},
		GridFields: []string{
			"product_id", "brand", "finest", "series", "tahun_release",
			"product_name", "gramasi", "ukuran", "finishing", "kategori_produk",
		},
		SearchFields: []string{"brand", "series", "product_name", "finishing"},
	},
	TableRequestAdmin: {
		Name:    "request_admin",
		IDField: "id_request_admin",
		Columns: []string{
			"id_request_admin", "no_request", "tgl_request", "uid_request", "nama_pemesan",
			"keterangan", "status_request", "file_attachment", "file_id", "id_production_process",
			"uid_changed", "created", "changed",
		},
		GridFields: []string{
			"id_request_admin", "no_request", "tgl_request", "uid_request", "nama_pemesan",
			"keterangan", "status_request", "uid_changed", "created", "changed",
		},
		SearchFields: []string{"no_request", "tgl_request", "nama_pemesan", "keterangan"},
		StatusField:  "status_request",
	},
	TableRequestAdminDetail: {
		Name:    "request_admin_detail",
		IDField: "id_request_admin_detail",
		Columns: []string{"id_request_admin_detail", "id_request_admin", "id_product", "qty_request", "status"},
	},
	TableProductionProcess: {
		Name:    "production_process",
		IDField: "id_production_process",
		Columns: []string{
			"id_production_process", "tgl_start", "tgl_end", "uid_created", "uid_changed", "created", "changed",
		},
		GridFields:   []string{"id_production_process", "tgl_start", "tgl_end", "uid_created", "created", "changed"},
		SearchFields: []string{"tgl_start", "tgl_end"},
	},
	TableRequestProduksi: {
		Name:    "request_produksi",
		IDField: "id_request_produksi",
		Columns: []string{
			"id_request_produksi", "tgl_request", "keterangan", "status_produksi", "id_production_process",
			"id_request_packaging", "uid_changed", "created", "changed",
		},
		GridFields: []string{
			"id_request_produksi", "id_production_process", "tgl_request", "keterangan",
			"status_produksi", "uid_changed", "changed",
		},
		SearchFields: []string{"tgl_request", "keterangan"},
		StatusField:  "status_produksi",
	},
	TableRequestProduksiDetail: {
		Name:    "request_produksi_detail",
		IDField: "id_request_produksi_detail",
		Columns: []string{
			"id_request_produksi_detail", "id_request_produksi", "satuan", "kepingan",
			"qty_request", "qty_produksi", "uid_changed", "changed",
		},
	},
	TableRequestKemasan: {
		Name:    "request_kemasan",
		IDField: "id_request_kemasan",
		Columns: []string{
			"id_request_kemasan", "tgl_request", "keterangan", "status_kemasan", "id_production_process",
			"id_request_packaging", "uid_changed", "created", "changed",
		},
		GridFields: []string{
			"id_request_kemasan", "id_production_process", "tgl_request", "keterangan",
			"status_kemasan", "uid_changed", "changed",
		},
		SearchFields: []string{"tgl_request", "keterangan"},
		StatusField:  "status_kemasan",
	},
	TableRequestKemasanDetail: {
		Name:    "request_kemasan_detail",
		IDField: "id_request_kemasan_detail",
		Columns: []string{
			"id_request_kemasan_detail", "id_request_kemasan", "id_product",
			"qty_request", "qty_kemasan", "uid_changed", "changed",
		},
	},
	TableRequestAdminProduksi: {
		Name:    "request_admin_produksi",
		IDField: "id_request_admin_produksi",
		Columns: []string{"id_request_admin_produksi", "id_request_admin", "id_request_produksi"},
	},
	TableRequestAdminKemasan: {
		Name:    "request_admin_kemasan",
		IDField: "id_request_admin_kemasan",
		Columns: []string{"id_request_admin_kemasan", "id_request_admin", "id_request_kemasan"},
	},
	TableRequestPackaging: {
		Name:    "request_packaging",
		IDField: "id_request_packaging",
		Columns: []string{
			"id_request_packaging", "id_production_process", "id_request_produksi", "id_request_kemasan",
			"tgl_request_from_kemasan", "tgl_request_from_produksi", "status_packaging", "keterangan",
			"uid_changed", "created", "changed",
		},
		GridFields: []string{
			"id_request_packaging", "id_production_process", "tgl_request_from_produksi",
			"tgl_request_from_kemasan", "keterangan", "status_packaging", "uid_changed", "changed",
		},
		SearchFields: []string{"keterangan"},
		StatusField:  "status_packaging",
	},
	TableRequestPackagingDetail: {
		Name:    "request_packaging_detail",
		IDField: "id_request_packaging_detail",
		Columns: []string{
			"id_request_packaging_detail", "id_request_packaging", "id_product", "produk_produksi",
			"qty_product", "qty_keping", "final_qty_product", "uid_changed", "changed",
		},
	},
	TableProductStock: {
		Name:         "product_stock",
		IDField:      "id_product_stock",
		Columns:      []string{"id_product_stock", "id_product", "qty", "uid_changed", "changed"},
		GridFields:   []string{"id_product_stock", "id_product", "qty", "uid_changed", "changed"},
		SearchFields: []string{"id_product"},
	},
	TableStockMovement: {
		Name:    "stock_movement",
		IDField: "id_stock_movement",
		Columns: []string{
			"id_stock_movement", "id_product", "id_request_packaging", "id_request_packaging_detail",
			"qty", "qty_after", "uid_created", "created",
		},
	},
	TableUser: {
		Name:    "users",
		IDField: "id_user",
		Columns: []string{"id_user", "username", "password_hash", "role", "is_active", "created"},
	},
}

var byName = map[string]Table{}

func init() {
	for t, s := range registry {
		s.columnSet = make(map[string]struct{}, len(s.Columns))
		for _, c := range s.Columns {
			s.columnSet[c] = struct{}{}
		}
		registry[t] = s
		byName[s.Name] = t
	}
}

// SchemaOf returns the descriptor of t. It panics on an undeclared table,
// which can only happen through a programming error.
func SchemaOf(t Table) TableSchema {
	s, ok := registry[t]
	if !ok {
		panic(fmt.Sprintf("store: undeclared table %d", int(t)))
	}
	return s
}

// TableByName resolves a table from its SQL name.
func TableByName(name string) (Table, bool) {
	t, ok := byName[name]
	return t, ok
}

// Tables returns every declared table.
func Tables() []Table {
	out := make([]Table, 0, len(registry))
	for t := TableProduct; t <= TableUser; t++ {
		if _, ok := registry[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
