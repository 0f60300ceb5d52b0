package models

// LoadRecord is one freight listing extracted from a load-board page.
// Extraction is best-effort: any field may be left at its zero value and the
// record is still usable downstream.
type LoadRecord struct {
	LoadID           string  `json:"load_id"`
	OriginCity       string  `json:"origin_city"`
	OriginState      string  `json:"origin_state"` // 2-letter state code
	DestinationCity  string  `json:"destination_city"`
	DestinationState string  `json:"destination_state"`
	Miles            int     `json:"miles"` // 0 = unknown
	Rate             float64 `json:"rate"`  // 0 = unknown
	BrokerName       string  `json:"broker_name"`
	BrokerEmail      string  `json:"broker_email"`
	BrokerPhone      string  `json:"broker_phone"`
	BrokerMC         string  `json:"broker_mc"` // normalized MC<digits>
	EquipmentType    string  `json:"equipment_type"`
	PickupDate       string  `json:"pickup_date"`
}

// Equipment type values recognized by the extractor.
const (
	EquipmentVan      = "Van"
	EquipmentReefer   = "Reefer"
	EquipmentFlatbed  = "Flatbed"
	EquipmentStepDeck = "Step Deck"
)

// Origin returns "City, ST" when both parts are known, whichever part is
// known when only one is, and "" when neither is.
func (r *LoadRecord) Origin() string {
	return joinCityState(r.OriginCity, r.OriginState)
}

// Destination is the counterpart of Origin for the drop end of the route.
func (r *LoadRecord) Destination() string {
	return joinCityState(r.DestinationCity, r.DestinationState)
}

func joinCityState(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}
