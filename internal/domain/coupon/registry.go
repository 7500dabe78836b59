package coupon

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

const (
	// maxGenerateAttempts bounds the uniqueness retry loop. The registry
	// fails closed with ErrCodeSpaceExhausted rather than spinning forever.
	maxGenerateAttempts = 100

	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	bloomCapacity = 100_000
	bloomFPR      = 0.001
)

// Registry holds every discount code ever generated and their used state.
// A bloom filter fronts the authoritative map: a code the filter has never
// seen is rejected immediately, and the filter never produces false
// negatives because every generated code is added to it.
type Registry struct {
	everyNth int

	mu     sync.Mutex
	codes  map[string]*Code
	order  []string
	filter *bloom.BloomFilter

	now func() time.Time
}

// NewRegistry creates a Registry that permits code generation on every
// everyNth completed order.
func NewRegistry(everyNth int) *Registry {
	return &Registry{
		everyNth: everyNth,
		codes:    make(map[string]*Code),
		filter:   bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		now:      time.Now,
	}
}

// Generate creates, stores, and returns a new unused discount code.
// It fails with ErrNotEligible unless orderCount is a positive multiple of
// the configured interval. Codes have the form SAVE10_XXXXXX where X is an
// uppercase alphanumeric character.
func (r *Registry) Generate(orderCount int) (*Code, error) {
	if !Eligible(orderCount, r.everyNth) {
		return nil, ErrNotEligible
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		suffix, err := randomSuffix()
		if err != nil {
			return nil, errors.Wrap(err, "generate code suffix")
		}
		code := CodePrefix + suffix
		if _, exists := r.codes[code]; exists {
			continue
		}

		c := &Code{
			Code:      code,
			CreatedAt: r.now(),
		}
		r.codes[code] = c
		r.order = append(r.order, code)
		r.filter.AddString(code)

		out := *c
		return &out, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Lookup returns a copy of the discount code, or ErrInvalidCoupon when no
// such code was ever generated.
func (r *Registry) Lookup(code string) (*Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.filter.TestString(code) {
		return nil, ErrInvalidCoupon
	}
	c, ok := r.codes[code]
	if !ok {
		// Bloom filter false positive.
		return nil, ErrInvalidCoupon
	}

	out := *c
	return &out, nil
}

// MarkUsed transitions a code from unused to used and records the timestamp.
// It fails with ErrCouponUsed if the code was already redeemed, and with
// ErrInvalidCoupon if the code does not exist. The transition is terminal.
func (r *Registry) MarkUsed(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[code]
	if !ok {
		return ErrInvalidCoupon
	}
	if c.Used {
		return ErrCouponUsed
	}

	usedAt := r.now()
	c.Used = true
	c.UsedAt = &usedAt
	return nil
}

// Codes returns every code ever generated, in generation order, including
// used and unused ones.
func (r *Registry) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// randomSuffix draws suffixLen characters from the uppercase alphanumeric
// charset using crypto/rand. Bytes at or above the largest multiple of the
// charset size are rejected, keeping every character equally likely.
func randomSuffix() (string, error) {
	const limit = byte(256 - 256%len(charset))

	out := make([]byte, 0, suffixLen)
	buf := make([]byte, suffixLen)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, charset[int(b)%len(charset)])
			if len(out) == suffixLen {
				return string(out), nil
			}
		}
	}
}
