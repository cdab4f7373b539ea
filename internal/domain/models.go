package domain

// Fixed grid geometry. These values are part of the contract with existing
// comparison spreadsheets and must not change.
const (
	CompanyNameRow = 1
	ContactInfoRow = 2
	HeaderRow      = 3
	// MasterListCol is the column holding canonical product names, shared
	// across all supplier blocks.
	MasterListCol = 2
	// ColumnsPerSupplier is the width of one supplier column block:
	// quantity, unit, unit price, line total.
	ColumnsPerSupplier = 4
)

// SummaryLabels are the seven aggregate rows below the product list, in the
// order they are written. The Thai text must stay bit-exact.
var SummaryLabels = []string{
	"รวมเป็นเงิน",
	"ภาษีมูลค่าเพิ่ม 7%",
	"ยอดรวมทั้งสิ้น",
	"กำหนดยืนราคา (วัน)",
	"ระยะเวลาส่งมอบสินค้าหลังจากได้รับ PO",
	"การชำระเงิน",
	"อื่น ๆ",
}

// SupplierColumnHeaders are written into HeaderRow for every supplier block.
var SupplierColumnHeaders = []string{"ปริมาณ", "หน่วย", "ราคาต่อหน่วย", "รวมเป็นเงิน"}

// Defaults substituted for missing or unusable extracted values.
const (
	UnknownCompany = "Unknown Company"
	UnknownProduct = "Unknown Product"
	DefaultUnit    = "ชิ้น"
	VATRate        = 0.07
)

// LineItem is one product line of a quotation.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"pricePerUnit"`
	LineTotal float64 `json:"totalPrice"`
}

// QuoteRecord is a fully validated quotation for one supplier. Every field is
// guaranteed populated; see the validate package for the defaulting rules.
type QuoteRecord struct {
	Company            string     `json:"company"`
	Contact            string     `json:"contact"`
	VATEnabled         bool       `json:"vat"`
	Items              []LineItem `json:"products"`
	Subtotal           float64    `json:"totalPrice"`
	VATAmount          float64    `json:"totalVat"`
	GrandTotal         float64    `json:"totalPriceIncludeVat"`
	PriceGuaranteeDays float64    `json:"priceGuaranteeDay"`
	DeliveryTime       string     `json:"deliveryTime"`
	PaymentTerms       string     `json:"paymentTerms"`
	OtherNotes         string     `json:"otherNotes"`
}

// RawRecord is the loosely typed shape returned by the extraction model. It
// never flows past the validator.
type RawRecord map[string]any

// Document is one uploaded source file handed to the extractor.
type Document struct {
	Path string
	Name string // display name, defaults to the base of Path
}

// DocumentError records a per-document extraction failure. Failures are
// collected, not propagated; only the final grid write can abort a run.
type DocumentError struct {
	FileName string
	Err      error
}

func (e DocumentError) Error() string {
	return e.FileName + ": " + e.Err.Error()
}
