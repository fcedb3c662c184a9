package api

import "encoding/json"

// AuthRequest represents the POST /v1/auth request.
type AuthRequest struct {
	AuthKeyID           string `json:"authKeyId"`
	AuthKey             string `json:"authKey"`
	TokenTimeoutSeconds int    `json:"tokenTimeoutSeconds"`
}

// AuthResponse represents the POST /v1/auth response.
type AuthResponse struct {
	APIKey     string `json:"apiKey"`
	OperatorID string `json:"operatorId"`
	Token      string `json:"token"`
}

// SubscriberDTO represents a subscriber as returned by /v1/subscribers.
// Nullable strings decode to "".
type SubscriberDTO struct {
	IMSI               string            `json:"imsi"`
	MSISDN             string            `json:"msisdn"`
	IPAddress          string            `json:"ipAddress"`
	OperatorID         string            `json:"operatorId"`
	APN                string            `json:"apn"`
	Type               string            `json:"type"`
	GroupID            string            `json:"groupId"`
	CreatedAt          *EpochMillis      `json:"createdAt"`
	LastModifiedAt     *EpochMillis      `json:"lastModifiedAt"`
	ExpiredAt          *EpochMillis      `json:"expiredAt"`
	ExpiryAction       string            `json:"expiryAction"`
	TerminationEnabled bool              `json:"terminationEnabled"`
	Status             string            `json:"status"`
	Tags               map[string]string `json:"tags"`
	SessionStatus      *SessionStatusDTO `json:"sessionStatus"`
	IMEILock           *IMEILockDTO      `json:"imeiLock"`
	SpeedClass         string            `json:"speedClass"`
	ModuleType         string            `json:"moduleType"`
	Plan               int               `json:"plan"`
	ICCID              string            `json:"iccid"`
	SerialNumber       string            `json:"serialNumber"`
	Subscription       string            `json:"subscription"`
}

// SessionStatusDTO represents the nested sessionStatus object.
// Location is kept undecoded.
type SessionStatusDTO struct {
	DNSServers    []string         `json:"dnsServers"`
	IMEI          string           `json:"imei"`
	LastUpdatedAt *EpochMillis     `json:"lastUpdatedAt"`
	Location      *json.RawMessage `json:"location"`
	Cell          *CellDTO         `json:"cell"`
	Online        bool             `json:"online"`
	UEIPAddress   string           `json:"ueIpAddress"`
	GTPCTEID      int64            `json:"gtpcTeid"`
}

// CellDTO represents the serving cell of an online session.
type CellDTO struct {
	RadioType string `json:"radioType"`
	MCC       int    `json:"mcc"`
	MNC       int    `json:"mnc"`
	TAC       int    `json:"tac"`
	ECI       int64  `json:"eci"`
}

// IMEILockDTO represents the imeiLock object.
type IMEILockDTO struct {
	IMEI string `json:"imei"`
}

// RegisterSubscriberRequest represents the POST /v1/subscribers/{imsi}/register request.
type RegisterSubscriberRequest struct {
	RegistrationSecret string            `json:"registrationSecret"`
	GroupID            string            `json:"groupId,omitempty"`
	Tags               map[string]string `json:"tags,omitempty"`
}

// SandboxInitRequest represents the POST /v1/sandbox/init request.
type SandboxInitRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	AuthKeyID string `json:"authKeyId"`
	AuthKey   string `json:"authKey"`
}

// SandboxTokenDTO represents the POST /v1/sandbox/init response.
type SandboxTokenDTO struct {
	OperatorID string `json:"operatorId"`
	APIKey     string `json:"apiKey"`
	Token      string `json:"token"`
}

// SandboxSubscriberDTO represents the POST /v1/sandbox/subscribers/create response.
type SandboxSubscriberDTO struct {
	IMSI               string            `json:"imsi"`
	MSISDN             string            `json:"msisdn"`
	RegistrationSecret string            `json:"registrationSecret"`
	SerialNumber       string            `json:"serialNumber"`
	GroupID            string            `json:"groupId"`
	Tags               map[string]string `json:"tags"`
}
