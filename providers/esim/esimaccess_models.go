package esim

type PackageInfo struct {
	PackageCode string `json:"packageCode"`
	Count       int    `json:"count"`
	Price       int64  `json:"price,omitempty"`
}

type OrderRequest struct {
	TransactionID   string        `json:"transactionId"`
	Amount          int64         `json:"amount"`
	PackageInfoList []PackageInfo `json:"packageInfoList"`
}

type OrderResponse struct {
	OrderNo       string `json:"orderNo"`
	TransactionID string `json:"transactionId"`
}

type PurchaseFilter struct {
	OrderNo     string `json:"orderNo,omitempty"`
	Iccid       string `json:"iccid,omitempty"`
	EsimTranNo  string `json:"esimTranNo,omitempty"`
	PageNum     int    `json:"pageNum,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
}

type EsimProfile struct {
	EsimTranNo  string `json:"esimTranNo"`
	OrderNo     string `json:"orderNo"`
	Iccid       string `json:"iccid"`
	Ac          string `json:"ac"`
	QrCodeUrl   string `json:"qrCodeUrl"`
	SmdpStatus  string `json:"smdpStatus"`
	EsimStatus  string `json:"esimStatus"`
	ExpiredTime string `json:"expiredTime"`
	TotalVolume int64  `json:"totalVolume"`
}

type Pager struct {
	PageNum  int `json:"pageNum"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

type PurchaseQueryResponse struct {
	EsimList []EsimProfile `json:"esimList"`
	Pager    Pager         `json:"pager"`
}

type PackageListItem struct {
	PackageCode  string `json:"packageCode"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	CurrencyCode string `json:"currencyCode"`
	Volume       int64  `json:"volume"`
	Duration     int32  `json:"duration"`
	DurationUnit string `json:"durationUnit"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	ActiveType   int    `json:"activeType"`
	RetailPrice  int64  `json:"retailPrice"`
}

type PackageListResponse struct {
	PackageList []PackageListItem `json:"packageList"`
}

type ActionRequest struct {
	OrderNo    string `json:"orderNo"`
	ActionCode string `json:"actionCode"`
}

// envelope wraps every response from the provisioning API.
type envelope[T any] struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode"`
	ErrorMsg  string `json:"errorMsg"`
	Obj       T      `json:"obj"`
}

const (
	ActionCancel  = "CANCEL"
	ActionSuspend = "SUSPEND"
	ActionRevoke  = "REVOKE"
)
