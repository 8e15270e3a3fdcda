package device

import (
	ghid "github.com/go-ctap/hid"
)

type ctxKey string

// Context keys selecting the HID backend used by Enumerate and OpenPath.
const (
	CtxKeyUseNamedPipe  ctxKey = "useNamedPipe"
	CtxKeyUseCgoFreeHID ctxKey = "useCgoFreeHID"
)

// Model describes the physical device behind a transport.
type Model struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	ProductName  string
	Manufacturer string
	SerialNumber string
}

// ModelFromInfo builds the model metadata from an enumerated HID device.
func ModelFromInfo(info *ghid.DeviceInfo) *Model {
	if info == nil {
		return nil
	}

	return &Model{
		Path:         info.Path,
		VendorID:     info.VendorID,
		ProductID:    info.ProductID,
		ProductName:  info.ProductStr,
		Manufacturer: info.MfrStr,
		SerialNumber: info.SerialNbr,
	}
}

func (m *Model) String() string {
	if m == nil {
		return "unknown device"
	}
	if m.ProductName != "" {
		return m.ProductName
	}

	return m.Path
}

// VendorDefinedUsagePage is the first HID usage page reserved for vendors.
const VendorDefinedUsagePage = 0xff00

// MatchesUsagePage reports whether usagePage is accepted by the filter want,
// zero accepts any vendor-defined usage page.
func MatchesUsagePage(usagePage, want uint16) bool {
	if want == 0 {
		return usagePage >= VendorDefinedUsagePage
	}
	return usagePage == want
}

func matchesVendor(vid, want uint16) bool {
	return want == 0 || vid == want
}

func useFlag(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
