package mail

// Template tags understood by the mailer worker.
const (
	TemplateOrderStatus      = "order_status"
	TemplateOrderStatusExtra = "order_status_extra"
)

// Message is one outgoing email.
type Message struct {
	ToName      string `json:"toName"`
	ToAddress   string `json:"toAddress"`
	Subject     string `json:"subject"`
	Text        string `json:"text"`
	HTML        string `json:"html"`
	FromName    string `json:"fromName"`
	FromAddress string `json:"fromAddress"`
	Template    string `json:"template"`
}
