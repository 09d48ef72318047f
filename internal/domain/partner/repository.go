package partner

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("partner not found")
	ErrNoFeePolicy = errors.New("no effective fee policy")
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
}

type FeePolicyRepository interface {
	FindEffective(ctx context.Context, partnerID int64, at time.Time) (*FeePolicy, error)
}
