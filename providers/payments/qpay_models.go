package payments

type TokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CreateInvoiceRequest struct {
	InvoiceCode         string `json:"invoice_code"`
	SenderInvoiceNo     string `json:"sender_invoice_no"`
	InvoiceReceiverCode string `json:"invoice_receiver_code"`
	InvoiceDescription  string `json:"invoice_description"`
	Amount              string `json:"amount"`
	CallbackURL         string `json:"callback_url"`
}

type InvoiceURL struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type CreateInvoiceResponse struct {
	InvoiceID string       `json:"invoice_id"`
	QrText    string       `json:"qr_text"`
	QrImage   string       `json:"qr_image"`
	QPayURL   string       `json:"qPay_shortUrl"`
	URLs      []InvoiceURL `json:"urls"`
}

type PaymentCheckRequest struct {
	ObjectType string       `json:"object_type"`
	ObjectID   string       `json:"object_id"`
	Offset     PagingOffset `json:"offset"`
}

type PagingOffset struct {
	PageNumber int `json:"page_number"`
	PageLimit  int `json:"page_limit"`
}

type PaymentRow struct {
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
	PaymentAmount string `json:"payment_amount"`
	PaymentDate   string `json:"payment_date"`
	PaymentWallet string `json:"payment_wallet"`
}

type PaymentCheckResponse struct {
	Count int          `json:"count"`
	Rows  []PaymentRow `json:"rows"`
}

// PaymentStatusPaid is the terminal gateway status the reconciliation
// checks look for.
const PaymentStatusPaid = "PAID"
