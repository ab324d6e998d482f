package repository

import (
	"encoding/json"
	"fmt"

	"container_leads_backend/internal/leads/domain"
)

// Details are stored as one JSONB object: the variant's fields plus a "kind"
// discriminator equal to the service type.

type detailsKind struct {
	Kind domain.ServiceType `json:"kind"`
}

func encodeDetails(d domain.ServiceDetails) ([]byte, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode details: %w", err)
	}
	kind, err := json.Marshal(detailsKind{Kind: d.ServiceType()})
	if err != nil {
		return nil, err
	}
	if string(body) == "{}" {
		return kind, nil
	}
	// {"kind":"x"} + , + rest of the variant object
	out := make([]byte, 0, len(kind)+len(body))
	out = append(out, kind[:len(kind)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// decodeDetails trusts the discriminator and falls back to the row's
// service type for rows written before it existed.
func decodeDetails(raw []byte, fallback domain.ServiceType) (domain.ServiceDetails, error) {
	kind := fallback
	if len(raw) > 0 {
		var k detailsKind
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("decode details kind: %w", err)
		}
		if k.Kind.Valid() {
			kind = k.Kind
		}
	}
	if len(raw) == 0 {
		return domain.EmptyDetails(kind), nil
	}

	var (
		d   domain.ServiceDetails
		err error
	)
	switch kind {
	case domain.ServiceStorage:
		var v domain.StorageDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.ServiceMoving:
		var v domain.MovingDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.ServiceStorageAndMoving:
		var v domain.StorageAndMovingDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.ServiceStandardModel:
		var v domain.StandardModelDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.ServiceCustom:
		var v domain.CustomDetails
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		var v domain.GeneralInquiryDetails
		err = json.Unmarshal(raw, &v)
		d = v
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", kind, err)
	}
	return d, nil
}
