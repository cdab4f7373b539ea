package llm

// Prompts holds the instruction templates sent to the model. Empty fields
// fall back to the package defaults, so a config file only needs to override
// what it changes.
type Prompts struct {
	Extraction string `yaml:"extraction"`
	Revision   string `yaml:"revision"`
	Matching   string `yaml:"matching"`
}

// WithDefaults fills empty templates with the built-in ones.
func (p Prompts) WithDefaults() Prompts {
	if p.Extraction == "" {
		p.Extraction = defaultExtractionPrompt
	}
	if p.Revision == "" {
		p.Revision = defaultRevisionPrompt
	}
	if p.Matching == "" {
		p.Matching = defaultMatchingPrompt
	}
	return p
}

const defaultExtractionPrompt = `You are a quotation extraction expert. Read the attached supplier quotation document and return its contents as JSON.

Return ONLY a JSON object with this exact shape (no prose, no markdown fences):

{
  "company": "supplier company name",
  "contact": {"email": "...", "phone": "..."},
  "vat": true,
  "products": [
    {"name": "...", "quantity": 1, "unit": "...", "pricePerUnit": 0, "totalPrice": 0}
  ],
  "totalPrice": 0,
  "totalVat": 0,
  "totalPriceIncludeVat": 0,
  "priceGuaranteeDay": 0,
  "deliveryTime": "",
  "paymentTerms": "",
  "otherNotes": ""
}

Rules:
- Copy product names exactly as written, including Thai text and dimension strings.
- Numbers must be plain JSON numbers, no thousands separators or currency symbols.
- "vat" is true when the document charges VAT, false otherwise.
- Omit nothing: use empty strings or 0 for values the document does not state.
- If the document contains several quotations, return a JSON array of such objects.`

const defaultRevisionPrompt = `You are a quotation data reviewer. Below is JSON extracted from a supplier quotation. Fix obvious extraction mistakes: swapped unit price and line total, misread digits, units placed in the name field, missing line totals that can be computed as quantity times unit price.

Return ONLY the corrected JSON object with the same shape. Do not add fields, do not remove products, do not invent values the source cannot support.

JSON to review:
`

const defaultMatchingPrompt = `You are a product matching assistant for procurement. Given a list of NEW products from a supplier quotation and a list of EXISTING products already on a comparison sheet, decide which new products refer to the same physical item as an existing one.

Products match when they are the same type of item with the same dimensions, allowing small rounding differences and different unit notation (millimetres vs metres). Different materials or product types never match.

Return ONLY a JSON object:

{
  "matched": [{"new": "<new product name>", "existing": "<existing product name>"}],
  "unique": ["<new product name>", ...]
}

Every new product must appear exactly once, either in "matched" or in "unique".`
