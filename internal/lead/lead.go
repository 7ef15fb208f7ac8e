// Package lead stores reseller sign-up interest captured by the public
// landing page form.
package lead

type Lead struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	WhatsApp  string `json:"whatsapp"`
	CpfCnpj   string `json:"cpfCnpj"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}
