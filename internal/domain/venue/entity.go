package venue

// State は会場の所在地（オーストラリアの州・特別地域）を表す
type State string

const (
	StateNSW State = "NSW"
	StateVIC State = "VIC"
	StateQLD State = "QLD"
	StateSA  State = "SA"
	StateNT  State = "NT"
	StateWA  State = "WA"
	StateACT State = "ACT"
	StateTAS State = "TAS"
)

// IsValid は既知の州コードかを返す
func (s State) IsValid() bool {
	switch s {
	case StateNSW, StateVIC, StateQLD, StateSA, StateNT, StateWA, StateACT, StateTAS:
		return true
	}
	return false
}

// Venue は会場エンティティを表す
type Venue struct {
	ID         int64
	Name       string
	Address    string
	Postcode   string
	State      State
	Capacity   int
	HourlyRate float64
}

// NewVenue は新しい会場を作成する
func NewVenue(name, address, postcode string, state State, capacity int, hourlyRate float64) *Venue {
	return &Venue{
		Name:       name,
		Address:    address,
		Postcode:   postcode,
		State:      state,
		Capacity:   capacity,
		HourlyRate: hourlyRate,
	}
}

// Validate は会場の検証を行う
func (v *Venue) Validate() error {
	if v.Name == "" || v.Address == "" || v.Postcode == "" {
		return ErrVenueFieldsRequired
	}
	if !v.State.IsValid() {
		return ErrInvalidState
	}
	if v.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if v.HourlyRate <= 0 {
		return ErrInvalidHourlyRate
	}
	return nil
}

// CanFit は人数が収容人数以内かを返す。収容人数ちょうどは可
func (v *Venue) CanFit(guests int) bool {
	return guests <= v.Capacity
}

// UpdatePricing は収容人数と時間単価を更新する
func (v *Venue) UpdatePricing(capacity int, hourlyRate float64) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	if hourlyRate <= 0 {
		return ErrInvalidHourlyRate
	}
	v.Capacity = capacity
	v.HourlyRate = hourlyRate
	return nil
}
