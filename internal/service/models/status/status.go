package status

// OrderStatus is a catalog entry keyed by (status id, language id).
// Read-only to this service.
type OrderStatus struct {
	ID         int64  `json:"id"`
	LanguageID int64  `json:"languageId"`
	Name       string `json:"name"`
}
