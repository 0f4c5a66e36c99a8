package extraction

// SystemPrompt frames the model as a financial document analyzer.
const SystemPrompt = "You are an AI document analyzer specializing in extracting structured data from receipts, invoices, and other financial documents. Extract all relevant information and format it as a JSON object. Be precise and thorough."

// BuildUserPrompt returns the extraction request for one document text.
// The model is never asked for a category; that is computed locally.
func BuildUserPrompt(text string) string {
	return `Extract the following information from this document:
- vendor: The name of the vendor, store or company that issued the document
- documentType: The type of document (Invoice, Receipt, Purchase Order, Bill or Other)
- date: The document date in YYYY-MM-DD format
- documentNumber: The invoice, receipt or order number
- totalAmount: The total amount as a decimal string without currency symbol
- taxAmount: The tax amount as a decimal string without currency symbol
- lineItems: An array of items, each with description, quantity, unitPrice and amount
- notes: Any additional relevant information
- confidence: Your confidence in the extraction from 0 to 100

Return ONLY a valid JSON object with exactly these field names.

Document text:
` + text
}
