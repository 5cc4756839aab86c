package payments

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RoamSim/RoamSim-Backend/providers"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/patrickmn/go-cache"
)

type QPayProvider struct {
	providers.BaseProvider
	config *PaymentConfig
	tokens *cache.Cache
}

type PaymentConfig struct {
	PaymentProviderName string `mapstructure:"PAYMENT_PROVIDER_NAME"`
	QPayUsername        string `mapstructure:"QPAY_USERNAME"`
	QPayPassword        string `mapstructure:"QPAY_PASSWORD"`
	QPayBaseUrl         string `mapstructure:"QPAY_BASE_URL"`
	QPayInvoiceCode     string `mapstructure:"QPAY_INVOICE_CODE"`
	QPayCallbackUrl     string `mapstructure:"QPAY_CALLBACK_URL"`
}

const tokenCacheKey = "qpay-access-token"

func NewPaymentProvider(logger *logging.Logger) *QPayProvider {

	var c PaymentConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return &QPayProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.PaymentProviderName,
			BaseURL: c.QPayBaseUrl,
			Client: &http.Client{
				Timeout: time.Second * 10,
			},
			Logger: logger,
		},
		config: &c,
		tokens: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (p *QPayProvider) GetToken() (string, error) {
	if token, found := p.tokens.Get(tokenCacheKey); found {
		return token.(string), nil
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/auth/token"

	basic := base64.StdEncoding.EncodeToString([]byte(p.config.QPayUsername + ":" + p.config.QPayPassword))
	requiredHeaders := map[string]string{
		"Authorization": "Basic " + basic,
	}

	resp, err := p.MakeRequest("POST", base.String(), nil, requiredHeaders)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Check the status code
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		p.Logger.Error("resp", string(respBody))
		return "", fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var tokenResponse TokenResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&tokenResponse)
	if err != nil {
		return "", fmt.Errorf("error decoding response body: %w", err)
	}

	// Expire a minute early so a token never dies mid-request.
	ttl := time.Duration(tokenResponse.ExpiresIn)*time.Second - time.Minute
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	p.tokens.Set(tokenCacheKey, tokenResponse.AccessToken, ttl)

	return tokenResponse.AccessToken, nil
}

// CreateInvoice registers a payment request with the gateway and returns
// the QR payload the client renders.
func (p *QPayProvider) CreateInvoice(senderInvoiceNo string, receiverCode string, description string, amount string) (*CreateInvoiceResponse, error) {
	token, err := p.GetToken()
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/invoice"

	request := CreateInvoiceRequest{
		InvoiceCode:         p.config.QPayInvoiceCode,
		SenderInvoiceNo:     senderInvoiceNo,
		InvoiceReceiverCode: receiverCode,
		InvoiceDescription:  description,
		Amount:              amount,
		CallbackURL:         fmt.Sprintf("%s?invoice=%s", p.config.QPayCallbackUrl, senderInvoiceNo),
	}

	requiredHeaders := map[string]string{
		"Authorization": "Bearer " + token,
	}

	resp, err := p.MakeRequest("POST", base.String(), request, requiredHeaders)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Check the status code
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		p.Logger.Error("resp", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response CreateInvoiceResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return &response, nil
}

// CheckInvoiceStatus queries the gateway for payments registered against
// an invoice. Safe to call repeatedly; it never mutates gateway state.
func (p *QPayProvider) CheckInvoiceStatus(externalInvoiceID string) (*PaymentCheckResponse, error) {
	token, err := p.GetToken()
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += "/payment/check"

	request := PaymentCheckRequest{
		ObjectType: "INVOICE",
		ObjectID:   externalInvoiceID,
		Offset: PagingOffset{
			PageNumber: 1,
			PageLimit:  100,
		},
	}

	requiredHeaders := map[string]string{
		"Authorization": "Bearer " + token,
	}

	resp, err := p.MakeRequest("POST", base.String(), request, requiredHeaders)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Check the status code
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		p.Logger.Error("resp", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response PaymentCheckResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return &response, nil
}

// HasPaidRow reports whether any payment row in the check response is PAID.
func (r *PaymentCheckResponse) HasPaidRow() bool {
	for _, row := range r.Rows {
		if row.PaymentStatus == PaymentStatusPaid {
			return true
		}
	}
	return false
}
