package models

// StockRecord is one warehouse location's quantity for a product. A product
// usually has several records, one per location; available stock is the sum of
// the positive quantities.
type StockRecord struct {
	ProductID string `json:"productId"`
	Location  string `json:"location"`
	Quantity  int    `json:"quantity"`
	Batch     string `json:"batch,omitempty"`
}
