package core

import "fmt"

// Status is the shared lifecycle code of request admin, produksi, kemasan and
// packaging records. Codes are stored as integers; the ordering is fixed here.
type Status int

const (
	StatusPending           Status = 0
	StatusOnProcess         Status = 1
	StatusPartiallyComplete Status = 2
	StatusComplete          Status = 3
	// StatusOnPackaging on a produksi or kemasan record hands its output to packaging.
	StatusOnPackaging Status = 4
	// StatusDelivered is terminal and only reachable through packaging finalization.
	StatusDelivered Status = 5
)

// StatusInfo is the presentation lookup for a status code.
type StatusInfo struct {
	Code  Status `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusTable = []StatusInfo{
	{StatusPending, "New / Pending", "secondary"},
	{StatusOnProcess, "On Process", "primary"},
	{StatusPartiallyComplete, "Partially Complete", "warning"},
	{StatusComplete, "Complete", "info"},
	{StatusOnPackaging, "On Packaging", "dark"},
	{StatusDelivered, "Delivered", "success"},
}

// Valid reports whether s is a known code.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusDelivered
}

// Locked reports whether a record in this status is read-only for edit and delete.
func (s Status) Locked() bool {
	return s > StatusPending
}

func (s Status) Info() StatusInfo {
	if !s.Valid() {
		return StatusInfo{Code: s, Label: fmt.Sprintf("Unknown (%d)", int(s)), Color: "light"}
	}
	return statusTable[s]
}

func (s Status) String() string {
	return s.Info().Label
}

// Statuses returns the full taxonomy in code order.
func Statuses() []StatusInfo {
	out := make([]StatusInfo, len(statusTable))
	copy(out, statusTable)
	return out
}

// ParseStatus converts a raw code into a Status, rejecting unknown codes.
func ParseStatus(code int64) (Status, error) {
	s := Status(code)
	if !s.Valid() {
		return 0, validationf("unknown status code %d", code)
	}
	return s, nil
}
