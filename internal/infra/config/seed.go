package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
)

// Seed is the partner directory and fee schedule loaded at startup.
type Seed struct {
	Partners []partner.Partner
	Policies []partner.FeePolicy
}

// PartnerIDs lists the ids of active partners.
func (s *Seed) PartnerIDs() []int64 {
	ids := make([]int64, 0, len(s.Partners))
	for _, p := range s.Partners {
		if p.Active {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

type seedFile struct {
	Partners []struct {
		ID     int64  `yaml:"id"`
		Code   string `yaml:"code"`
		Name   string `yaml:"name"`
		Active *bool  `yaml:"active"`
	} `yaml:"partners"`
	FeePolicies []struct {
		ID            int64  `yaml:"id"`
		PartnerID     int64  `yaml:"partner_id"`
		EffectiveFrom string `yaml:"effective_from"`
		// kept as text so 0.0235 is not routed through float64
		Percentage string `yaml:"percentage"`
		FixedFee   string `yaml:"fixed_fee"`
	} `yaml:"fee_policies"`
}

var ErrInvalidSeed = errors.New("invalid seed")

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var raw seedFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	seed := &Seed{}
	known := make(map[int64]bool, len(raw.Partners))

	for _, p := range raw.Partners {
		if p.ID <= 0 || p.Code == "" {
			return nil, fmt.Errorf("%w: partner needs a positive id and a code", ErrInvalidSeed)
		}
		if known[p.ID] {
			return nil, fmt.Errorf("%w: duplicate partner id %d", ErrInvalidSeed, p.ID)
		}
		known[p.ID] = true

		active := true
		if p.Active != nil {
			active = *p.Active
		}
		seed.Partners = append(seed.Partners, partner.Partner{
			ID:     p.ID,
			Code:   p.Code,
			Name:   p.Name,
			Active: active,
		})
	}

	for _, fp := range raw.FeePolicies {
		if !known[fp.PartnerID] {
			return nil, fmt.Errorf("%w: fee policy %d references unknown partner %d", ErrInvalidSeed, fp.ID, fp.PartnerID)
		}

		from, err := parseSeedTime(fp.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: fee policy %d: %v", ErrInvalidSeed, fp.ID, err)
		}
		pct, err := decimal.NewFromString(fp.Percentage)
		if err != nil {
			return nil, fmt.Errorf("%w: fee policy %d percentage: %v", ErrInvalidSeed, fp.ID, err)
		}

		policy := partner.FeePolicy{
			ID:            fp.ID,
			PartnerID:     fp.PartnerID,
			EffectiveFrom: from,
			Percentage:    pct,
		}
		if fp.FixedFee != "" {
			fixed, err := decimal.NewFromString(fp.FixedFee)
			if err != nil {
				return nil, fmt.Errorf("%w: fee policy %d fixed_fee: %v", ErrInvalidSeed, fp.ID, err)
			}
			policy.FixedFee = decimal.NewNullDecimal(fixed)
		}
		if !policy.Valid() {
			return nil, fmt.Errorf("%w: fee policy %d out of range", ErrInvalidSeed, fp.ID)
		}

		seed.Policies = append(seed.Policies, policy)
	}

	return seed, nil
}

func parseSeedTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised effective_from %q", s)
}
