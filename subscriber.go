package soracom

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/soracom-sdk/soracom-go/internal/api"
	"github.com/soracom-sdk/soracom-go/internal/apierrors"
)

// SubscriberStatus is the lifecycle state of a SIM.
type SubscriberStatus string

// Subscriber statuses reported by the API.
const (
	StatusReady      SubscriberStatus = "ready"
	StatusActive     SubscriberStatus = "active"
	StatusInactive   SubscriberStatus = "inactive"
	StatusStandby    SubscriberStatus = "standby"
	StatusSuspended  SubscriberStatus = "suspended"
	StatusTerminated SubscriberStatus = "terminated"
)

// Tags are free-form key/value labels attached to a subscriber.
type Tags map[string]string

// Subscriber is a SIM known to the platform, keyed by IMSI.
// Nullable string fields are empty when the API sends null.
type Subscriber struct {
	IMSI               string
	MSISDN             string
	IPAddress          string
	OperatorID         string
	APN                string
	Type               string
	GroupID            string
	Status             SubscriberStatus
	SpeedClass         string
	ModuleType         string
	Plan               int
	ICCID              string
	SerialNumber       string
	Subscription       string
	ExpiryAction       string
	TerminationEnabled bool

	CreatedAt      time.Time
	LastModifiedAt *time.Time
	ExpiredAt      *time.Time

	// Tags is never nil.
	Tags          Tags
	SessionStatus *SessionStatus
	IMEILock      *IMEILock
}

// SessionStatus describes the current data session of a subscriber.
// Location holds the raw location object and is nil when none was reported.
type SessionStatus struct {
	DNSServers    []string
	IMEI          string
	LastUpdatedAt *time.Time
	Location      json.RawMessage
	Cell          *Cell
	Online        bool
	UEIPAddress   string
	GTPCTEID      int64
}

// Cell is the radio cell serving an online session.
type Cell struct {
	RadioType string
	MCC       int
	MNC       int
	TAC       int
	ECI       int64
}

// IMEILock binds a subscriber to one device.
type IMEILock struct {
	IMEI string
}

// SubscriberRegistration carries what is needed to register a SIM to an
// operator. Sandbox CreateSubscriber returns one ready to pass to RegisterSubscriber.
type SubscriberRegistration struct {
	IMSI               string
	RegistrationSecret string
	SerialNumber       string
	MSISDN             string
	GroupID            string
	Tags               Tags
}

// MarshalJSON encodes the subscriber in the API wire shape.
func (s Subscriber) MarshalJSON() ([]byte, error) {
	return json.Marshal(subscriberToDTO(&s))
}

// UnmarshalJSON decodes the API wire shape. A missing createdAt is an error.
func (s *Subscriber) UnmarshalJSON(data []byte) error {
	var dto api.SubscriberDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	sub, err := subscriberFromDTO(&dto)
	if err != nil {
		return err
	}
	*s = *sub
	return nil
}

// subscriberFromDTO converts an API response to the domain type.
func subscriberFromDTO(dto *api.SubscriberDTO) (*Subscriber, error) {
	if dto.CreatedAt == nil {
		return nil, apierrors.NewDecodeError(fmt.Errorf("subscriber %q: missing createdAt", dto.IMSI))
	}

	tags := make(Tags, len(dto.Tags))
	for k, v := range dto.Tags {
		tags[k] = v
	}

	return &Subscriber{
		IMSI:               dto.IMSI,
		MSISDN:             dto.MSISDN,
		IPAddress:          dto.IPAddress,
		OperatorID:         dto.OperatorID,
		APN:                dto.APN,
		Type:               dto.Type,
		GroupID:            dto.GroupID,
		Status:             SubscriberStatus(dto.Status),
		SpeedClass:         dto.SpeedClass,
		ModuleType:         dto.ModuleType,
		Plan:               dto.Plan,
		ICCID:              dto.ICCID,
		SerialNumber:       dto.SerialNumber,
		Subscription:       dto.Subscription,
		ExpiryAction:       dto.ExpiryAction,
		TerminationEnabled: dto.TerminationEnabled,
		CreatedAt:          dto.CreatedAt.Time(),
		LastModifiedAt:     dto.LastModifiedAt.TimePtr(),
		ExpiredAt:          dto.ExpiredAt.TimePtr(),
		Tags:               tags,
		SessionStatus:      sessionStatusFromDTO(dto.SessionStatus),
		IMEILock:           imeiLockFromDTO(dto.IMEILock),
	}, nil
}

func sessionStatusFromDTO(dto *api.SessionStatusDTO) *SessionStatus {
	if dto == nil {
		return nil
	}
	ss := &SessionStatus{
		DNSServers:    dto.DNSServers,
		IMEI:          dto.IMEI,
		LastUpdatedAt: dto.LastUpdatedAt.TimePtr(),
		Online:        dto.Online,
		UEIPAddress:   dto.UEIPAddress,
		GTPCTEID:      dto.GTPCTEID,
	}
	if dto.Location != nil {
		ss.Location = append(json.RawMessage(nil), *dto.Location...)
	}
	if dto.Cell != nil {
		ss.Cell = &Cell{
			RadioType: dto.Cell.RadioType,
			MCC:       dto.Cell.MCC,
			MNC:       dto.Cell.MNC,
			TAC:       dto.Cell.TAC,
			ECI:       dto.Cell.ECI,
		}
	}
	return ss
}

func imeiLockFromDTO(dto *api.IMEILockDTO) *IMEILock {
	if dto == nil {
		return nil
	}
	return &IMEILock{IMEI: dto.IMEI}
}

func subscriberToDTO(s *Subscriber) *api.SubscriberDTO {
	created := api.NewEpochMillis(s.CreatedAt)
	dto := &api.SubscriberDTO{
		IMSI:               s.IMSI,
		MSISDN:             s.MSISDN,
		IPAddress:          s.IPAddress,
		OperatorID:         s.OperatorID,
		APN:                s.APN,
		Type:               s.Type,
		GroupID:            s.GroupID,
		Status:             string(s.Status),
		SpeedClass:         s.SpeedClass,
		ModuleType:         s.ModuleType,
		Plan:               s.Plan,
		ICCID:              s.ICCID,
		SerialNumber:       s.SerialNumber,
		Subscription:       s.Subscription,
		ExpiryAction:       s.ExpiryAction,
		TerminationEnabled: s.TerminationEnabled,
		CreatedAt:          &created,
		LastModifiedAt:     api.EpochMillisPtr(s.LastModifiedAt),
		ExpiredAt:          api.EpochMillisPtr(s.ExpiredAt),
		Tags:               map[string]string(s.Tags),
	}
	if dto.Tags == nil {
		dto.Tags = map[string]string{}
	}
	if ss := s.SessionStatus; ss != nil {
		dto.SessionStatus = &api.SessionStatusDTO{
			DNSServers:    ss.DNSServers,
			IMEI:          ss.IMEI,
			LastUpdatedAt: api.EpochMillisPtr(ss.LastUpdatedAt),
			Online:        ss.Online,
			UEIPAddress:   ss.UEIPAddress,
			GTPCTEID:      ss.GTPCTEID,
		}
		if ss.Location != nil {
			loc := ss.Location
			dto.SessionStatus.Location = &loc
		}
		if c := ss.Cell; c != nil {
			dto.SessionStatus.Cell = &api.CellDTO{
				RadioType: c.RadioType,
				MCC:       c.MCC,
				MNC:       c.MNC,
				TAC:       c.TAC,
				ECI:       c.ECI,
			}
		}
	}
	if s.IMEILock != nil {
		dto.IMEILock = &api.IMEILockDTO{IMEI: s.IMEILock.IMEI}
	}
	return dto
}

func registrationFromSandboxDTO(dto *api.SandboxSubscriberDTO) *SubscriberRegistration {
	tags := make(Tags, len(dto.Tags))
	for k, v := range dto.Tags {
		tags[k] = v
	}
	return &SubscriberRegistration{
		IMSI:               dto.IMSI,
		RegistrationSecret: dto.RegistrationSecret,
		SerialNumber:       dto.SerialNumber,
		MSISDN:             dto.MSISDN,
		GroupID:            dto.GroupID,
		Tags:               tags,
	}
}
