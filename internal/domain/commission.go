package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a tier applies to transfers an agent sends or receives.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionIncoming, DirectionOutgoing:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

var hundred = decimal.NewFromInt(100)

// Tier is one row of a bulletin. A nil ToAmount means the range is open-ended.
// Both bounds are inclusive.
type Tier struct {
	ID           string
	FromAmount   decimal.Decimal
	ToAmount     *decimal.Decimal
	Percentage   decimal.Decimal
	City         string
	Country      string
	CurrencyType string
	Direction    Direction
	Position     int
}

// IsWildcard reports whether a tier locality value matches any locality.
func IsWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func sameLocality(tierValue, queryValue string) bool {
	return strings.EqualFold(strings.TrimSpace(tierValue), strings.TrimSpace(queryValue))
}

// Contains reports whether amount lies within [FromAmount, ToAmount].
func (t Tier) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(t.FromAmount) {
		return false
	}
	return t.ToAmount == nil || amount.LessThanOrEqual(*t.ToAmount)
}

// Specificity ranks locality precision: exact city 2, exact country 1, wildcard 0.
func (t Tier) Specificity() int {
	switch {
	case !IsWildcard(t.City):
		return 2
	case !IsWildcard(t.Country):
		return 1
	default:
		return 0
	}
}

// MatchesLocality applies the wildcard rule; a concrete tier value needs an equal query value.
func (t Tier) MatchesLocality(city, country string) bool {
	if !IsWildcard(t.City) && !sameLocality(t.City, city) {
		return false
	}
	if !IsWildcard(t.Country) && !sameLocality(t.Country, country) {
		return false
	}
	return true
}

func (t Tier) localityKey() string {
	city, country := "*", "*"
	if !IsWildcard(t.City) {
		city = strings.ToLower(strings.TrimSpace(t.City))
	}
	if !IsWildcard(t.Country) {
		country = strings.ToLower(strings.TrimSpace(t.Country))
	}
	return string(t.Direction) + "|" + city + "|" + country
}

// Bulletin is a dated table of commission tiers for one agent and currency.
type Bulletin struct {
	ID           string
	AgentID      string
	Currency     string
	BulletinType string
	Date         time.Time
	Tiers        []Tier
	CreatedAt    time.Time
}

// Validate checks every tier and rejects overlapping ranges within the same
// direction and locality. Ranges touching at one endpoint are allowed.
func (b *Bulletin) Validate() error {
	if strings.TrimSpace(b.AgentID) == "" {
		return fmt.Errorf("%w: agent id is required", ErrInvalidTier)
	}
	if len(b.Tiers) == 0 {
		return fmt.Errorf("%w: bulletin has no tiers", ErrInvalidTier)
	}

	groups := make(map[string][]Tier)
	for i, t := range b.Tiers {
		if _, err := ParseDirection(string(t.Direction)); err != nil {
			return fmt.Errorf("tier %d: %w", i+1, err)
		}
		if t.FromAmount.IsNegative() {
			return fmt.Errorf("%w: tier %d starts below zero", ErrInvalidTier, i+1)
		}
		if t.ToAmount != nil && t.ToAmount.LessThan(t.FromAmount) {
			return fmt.Errorf("%w: tier %d ends before it starts", ErrInvalidTier, i+1)
		}
		if t.Percentage.IsNegative() || t.Percentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: tier %d percentage %s outside [0, 100]", ErrInvalidTier, i+1, t.Percentage)
		}
		groups[t.localityKey()] = append(groups[t.localityKey()], t)
	}

	for key, tiers := range groups {
		sort.SliceStable(tiers, func(i, j int) bool {
			return tiers[i].FromAmount.LessThan(tiers[j].FromAmount)
		})
		for i := 1; i < len(tiers); i++ {
			prev, cur := tiers[i-1], tiers[i]
			if prev.ToAmount == nil || cur.FromAmount.LessThan(*prev.ToAmount) {
				return fmt.Errorf("%w: %s ranges starting at %s and %s", ErrOverlappingTiers, key, prev.FromAmount, cur.FromAmount)
			}
		}
	}
	return nil
}

// TierQuery describes the transfer a commission is being resolved for.
type TierQuery struct {
	Amount    decimal.Decimal
	Direction Direction
	City      string
	Country   string
}

// SelectTier returns the tier applying to q. Among matching tiers whose range
// contains the amount, the most specific locality wins, then the higher
// FromAmount, then bulletin order.
func (b *Bulletin) SelectTier(q TierQuery) (*Tier, error) {
	var best *Tier
	for i := range b.Tiers {
		t := &b.Tiers[i]
		if t.Direction != q.Direction || !t.MatchesLocality(q.City, q.Country) || !t.Contains(q.Amount) {
			continue
		}
		if best == nil || preferTier(t, best) {
			best = t
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNoMatchingTier, q.Direction, q.Amount)
	}
	return best, nil
}

func preferTier(candidate, current *Tier) bool {
	if cs, bs := candidate.Specificity(), current.Specificity(); cs != bs {
		return cs > bs
	}
	if !candidate.FromAmount.Equal(current.FromAmount) {
		return candidate.FromAmount.GreaterThan(current.FromAmount)
	}
	return false
}

// LatestBulletin picks the bulletin with the greatest date not after asOf.
// Bulletins sharing that date resolve to the one created last.
func LatestBulletin(bulletins []*Bulletin, asOf time.Time) (*Bulletin, error) {
	var latest *Bulletin
	for _, b := range bulletins {
		if b.Date.After(asOf) {
			continue
		}
		if latest == nil || b.Date.After(latest.Date) ||
			(b.Date.Equal(latest.Date) && b.CreatedAt.After(latest.CreatedAt)) {
			latest = b
		}
	}
	if latest == nil {
		return nil, ErrNoBulletin
	}
	return latest, nil
}

// Commission is a resolved commission for one transfer amount.
type Commission struct {
	Percentage   decimal.Decimal
	Amount       decimal.Decimal
	BulletinID   string
	TierID       string
	CurrencyType string
}

// ComputeCommission returns amount * percentage / 100.
func ComputeCommission(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(hundred)
}

// Resolution is either Resolved with a commission or Unresolved with the reason.
// An unresolved result carries a zero commission so callers can proceed.
type Resolution struct {
	Resolved   bool
	Commission Commission
	Reason     error
}

// ResolvedCommission wraps a found commission.
func ResolvedCommission(c Commission) Resolution {
	return Resolution{Resolved: true, Commission: c}
}

// UnresolvedCommission records a soft failure with a zero commission.
func UnresolvedCommission(reason error) Resolution {
	return Resolution{
		Commission: Commission{Percentage: decimal.Zero, Amount: decimal.Zero},
		Reason:     reason,
	}
}

// Warning describes why the commission fell back to zero.
func (r Resolution) Warning() string {
	if r.Resolved || r.Reason == nil {
		return ""
	}
	return "commission defaulted to 0%: " + r.Reason.Error()
}
