package esim

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RoamSim/RoamSim-Backend/providers"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/utils"
)

type EsimAccessProvider struct {
	providers.BaseProvider
	config *EsimConfig
}

type EsimConfig struct {
	EsimProviderName string `mapstructure:"ESIM_PROVIDER_NAME"`
	EsimAccessCode   string `mapstructure:"ESIM_ACCESS_CODE"`
	EsimBaseUrl      string `mapstructure:"ESIM_BASE_URL"`
}

func NewEsimProvider(logger *logging.Logger) *EsimAccessProvider {

	var c EsimConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return &EsimAccessProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.EsimProviderName,
			BaseURL: c.EsimBaseUrl,
			Client: &http.Client{
				Timeout: time.Second * 10,
			},
			Logger: logger,
		},
		config: &c,
	}
}

func (p *EsimAccessProvider) headers() map[string]string {
	return map[string]string{
		"RT-AccessCode": p.config.EsimAccessCode,
	}
}

func (p *EsimAccessProvider) post(path string, request interface{}, out interface{}) error {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("error parsing base URL: %v", err)
	}
	base.Path += path

	resp, err := p.MakeRequest("POST", base.String(), request, p.headers())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Check the status code
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		p.Logger.Error("resp", string(respBody))
		return fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}
	return nil
}

// PlaceOrder submits a provisioning order. The transaction id doubles as
// the idempotency key on the provider side.
func (p *EsimAccessProvider) PlaceOrder(request *OrderRequest) (*OrderResponse, error) {
	var response envelope[OrderResponse]
	if err := p.post("/esim/order", request, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("order rejected by provider: %s (%s)", response.ErrorMsg, response.ErrorCode)
	}
	return &response.Obj, nil
}

// QueryPurchases lists provisioned profiles for enrichment (iccid,
// activation state) after an order has been placed.
func (p *EsimAccessProvider) QueryPurchases(filter *PurchaseFilter) (*PurchaseQueryResponse, error) {
	var response envelope[PurchaseQueryResponse]
	if err := p.post("/esim/query", filter, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("purchase query failed: %s (%s)", response.ErrorMsg, response.ErrorCode)
	}
	return &response.Obj, nil
}

// GetAllPackages pulls the provider catalog for the local sync.
func (p *EsimAccessProvider) GetAllPackages() ([]PackageListItem, error) {
	var response envelope[PackageListResponse]
	if err := p.post("/package/list", struct{}{}, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("package list failed: %s (%s)", response.ErrorMsg, response.ErrorCode)
	}
	return response.Obj.PackageList, nil
}

// PerformAction runs a lifecycle action (cancel, suspend, revoke) against
// an existing order.
func (p *EsimAccessProvider) PerformAction(actionCode string, orderNo string) error {
	var response envelope[json.RawMessage]
	request := ActionRequest{
		OrderNo:    orderNo,
		ActionCode: actionCode,
	}
	if err := p.post("/esim/action", request, &response); err != nil {
		return err
	}
	if !response.Success {
		return fmt.Errorf("action %s failed for order %s: %s (%s)", actionCode, orderNo, response.ErrorMsg, response.ErrorCode)
	}
	return nil
}
