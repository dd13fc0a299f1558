package entity

// CompanyInfo is the issuing company printed on every invoice.
// Only one value exists at a time; saving replaces it wholesale.
type CompanyInfo struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email"`
	Logo    string   `json:"logo"`
	Bank    BankInfo `json:"bank"`
}

// BankInfo holds the payment destination shown on printed invoices
type BankInfo struct {
	Name          string `json:"name"`
	Branch        string `json:"branch"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// HasBank reports whether the bank block should be printed
func (c CompanyInfo) HasBank() bool {
	return c.Bank.Name != ""
}
