package services

import (
	"sync"
	"time"

	"github.com/tailorrecords/tailor-records-api/models"
)

const (
	// PhoneCheckDebounce is the quiescence window before a duplicate lookup runs
	PhoneCheckDebounce = 300 * time.Millisecond
	// PhoneCheckMinLength is the minimum input length worth checking
	PhoneCheckMinLength = 10
)

// PhoneCheckResult reports the outcome of one debounced duplicate lookup.
// Duplicate conflicts are a warning, never a hard block: the caller decides
// whether to proceed with the save.
type PhoneCheckResult struct {
	Phone     string           `json:"phone"`
	Duplicate bool             `json:"duplicate"`
	Customer  *models.Customer `json:"customer,omitempty"`
	Err       error            `json:"-"`
}

// PhoneLookupFunc finds another customer holding the phone number, excluding
// the record being edited
type PhoneLookupFunc func(phone string, excludeID uint) (*models.Customer, error)

// PhoneChecker debounces duplicate-phone lookups against a stream of keystroke
// updates. Only the newest input is ever checked: each Update supersedes any
// pending one, and the lookup fires after the input has been quiet for the
// debounce window and is at least PhoneCheckMinLength characters long.
type PhoneChecker struct {
	mu      sync.Mutex
	lookup  PhoneLookupFunc
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	results chan PhoneCheckResult
	closed  bool
}

// NewPhoneChecker creates a checker with the standard debounce window
func NewPhoneChecker(lookup PhoneLookupFunc) *PhoneChecker {
	return NewPhoneCheckerWithDelay(lookup, PhoneCheckDebounce)
}

// NewPhoneCheckerWithDelay creates a checker with an explicit debounce window
func NewPhoneCheckerWithDelay(lookup PhoneLookupFunc, delay time.Duration) *PhoneChecker {
	return &PhoneChecker{
		lookup:  lookup,
		delay:   delay,
		results: make(chan PhoneCheckResult, 1),
	}
}

// Results returns the channel check outcomes are delivered on. Only the
// newest pending result is kept if the consumer falls behind.
func (p *PhoneChecker) Results() <-chan PhoneCheckResult {
	return p.results
}

// Update registers the current phone input. Short inputs cancel any pending
// check without emitting a result.
func (p *PhoneChecker) Update(phone string, excludeID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if len(phone) < PhoneCheckMinLength {
		return
	}

	gen := p.gen
	p.timer = time.AfterFunc(p.delay, func() {
		p.run(gen, phone, excludeID)
	})
}

func (p *PhoneChecker) run(gen uint64, phone string, excludeID uint) {
	p.mu.Lock()
	if p.closed || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	customer, err := p.lookup(phone, excludeID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		// A newer keystroke arrived while the lookup ran
		return
	}

	result := PhoneCheckResult{
		Phone:     phone,
		Duplicate: customer != nil,
		Customer:  customer,
		Err:       err,
	}
	select {
	case p.results <- result:
	default:
		// Drop the stale unconsumed result in favor of this one
		select {
		case <-p.results:
		default:
		}
		p.results <- result
	}
}

// Close stops any pending check and closes the result channel
func (p *PhoneChecker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	close(p.results)
}
