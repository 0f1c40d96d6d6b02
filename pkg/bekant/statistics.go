// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Statistics tracks exchange outcomes and error rates
type Statistics struct {
	mu sync.Mutex

	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalExchanges uint64
	Successful     uint64
	Timeouts       uint64
	ChecksumErrors uint64
	FramingErrors  uint64 // identifier, command and length
	DataErrors     uint64
	ParamErrors    uint64
	TransportErrs  uint64
	DeskErrors     uint64

	// Desk errors by status code
	DeskErrorCodes map[DeskErrorCode]uint64

	// Latency of successful exchanges
	TotalLatency time.Duration
	MaxLatency   time.Duration

	// Rates (calculated)
	ExchangeRate float64 // exchanges/sec
	ErrorRate    float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
		DeskErrorCodes: make(map[DeskErrorCode]uint64),
	}
}

// Update records the outcome of one exchange
func (s *Statistics) Update(cmd Command, latency time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalExchanges++
	s.LastUpdateTime = time.Now()

	if err == nil {
		s.Successful++
		s.TotalLatency += latency
		if latency > s.MaxLatency {
			s.MaxLatency = latency
		}
		return
	}

	var de *DeskError
	if errors.As(err, &de) {
		s.DeskErrors++
		s.DeskErrorCodes[de.Code]++
		return
	}

	var he *HostError
	if !errors.As(err, &he) {
		s.TransportErrs++
		return
	}

	switch he.Kind {
	case HostTimeout:
		s.Timeouts++
	case HostInvalidChecksum:
		s.ChecksumErrors++
	case HostInvalidIdentifier, HostInvalidCommand, HostInvalidLength:
		s.FramingErrors++
	case HostInvalidData:
		s.DataErrors++
	case HostInvalidParameter:
		s.ParamErrors++
	default:
		s.TransportErrs++
	}
}

// Errors returns the total number of failed exchanges
func (s *Statistics) Errors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors()
}

func (s *Statistics) errors() uint64 {
	return s.TotalExchanges - s.Successful
}

// Totals returns the exchange, success and failure counts
func (s *Statistics) Totals() (total, successful, failed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalExchanges, s.Successful, s.errors()
}

// CalculateRates calculates exchange and error rates
func (s *Statistics) CalculateRates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRates()
}

func (s *Statistics) calculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ExchangeRate = float64(s.TotalExchanges) / elapsed
		s.ErrorRate = float64(s.errors()) / elapsed
	}
}

// Rates returns the current exchange and error rates per second
func (s *Statistics) Rates() (exchanges, failures float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRates()
	return s.ExchangeRate, s.ErrorRate
}

// Breakdown is a copy of the failure counters
type Breakdown struct {
	Timeouts  uint64
	Checksum  uint64
	Framing   uint64
	Data      uint64
	Param     uint64
	Transport uint64
	Desk      uint64
}

// Breakdown returns the failure counters by class
func (s *Statistics) Breakdown() Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Breakdown{
		Timeouts:  s.Timeouts,
		Checksum:  s.ChecksumErrors,
		Framing:   s.FramingErrors,
		Data:      s.DataErrors,
		Param:     s.ParamErrors,
		Transport: s.TransportErrs,
		Desk:      s.DeskErrors,
	}
}

// AverageLatency returns the mean latency of successful exchanges
func (s *Statistics) AverageLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Successful == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Successful)
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calculateRates()

	percent := func(n uint64) float64 {
		if s.TotalExchanges == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalExchanges)
	}

	var avg time.Duration
	if s.Successful > 0 {
		avg = s.TotalLatency / time.Duration(s.Successful)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Link Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Exchanges:       %8d\n", s.TotalExchanges)
	result += fmt.Sprintf("Successful:      %8d (%.1f%%)\n", s.Successful, percent(s.Successful))

	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d (%.1f%%)\n", s.Timeouts, percent(s.Timeouts))
	}
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d (%.1f%%)\n", s.ChecksumErrors, percent(s.ChecksumErrors))
	}
	if s.FramingErrors > 0 {
		result += fmt.Sprintf("Framing Errors:  %8d (%.1f%%)\n", s.FramingErrors, percent(s.FramingErrors))
	}
	if s.DataErrors > 0 {
		result += fmt.Sprintf("Data Errors:     %8d (%.1f%%)\n", s.DataErrors, percent(s.DataErrors))
	}
	if s.ParamErrors > 0 {
		result += fmt.Sprintf("Param Errors:    %8d (%.1f%%)\n", s.ParamErrors, percent(s.ParamErrors))
	}
	if s.TransportErrs > 0 {
		result += fmt.Sprintf("Transport Errs:  %8d (%.1f%%)\n", s.TransportErrs, percent(s.TransportErrs))
	}
	if s.DeskErrors > 0 {
		result += fmt.Sprintf("Desk Errors:     %8d (%.1f%%)\n", s.DeskErrors, percent(s.DeskErrors))
		for code := DeskErrorCode(0); code < 0xFF; code++ {
			if n := s.DeskErrorCodes[code]; n > 0 {
				result += fmt.Sprintf("  %-18s %5d\n", code.String()+":", n)
			}
		}
	}

	result += fmt.Sprintf("Avg Latency:     %8s\n", avg.Round(time.Microsecond))
	result += fmt.Sprintf("Max Latency:     %8s\n", s.MaxLatency.Round(time.Microsecond))
	result += fmt.Sprintf("Exchange Rate:   %8.1f ex/sec\n", s.ExchangeRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "====================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalExchanges = 0
	s.Successful = 0
	s.Timeouts = 0
	s.ChecksumErrors = 0
	s.FramingErrors = 0
	s.DataErrors = 0
	s.ParamErrors = 0
	s.TransportErrs = 0
	s.DeskErrors = 0
	s.DeskErrorCodes = make(map[DeskErrorCode]uint64)
	s.TotalLatency = 0
	s.MaxLatency = 0
	s.ExchangeRate = 0
	s.ErrorRate = 0
}
