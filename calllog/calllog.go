// Package calllog counts the calls made to and from a Twilio number over a
// time window.
package calllog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/agentplexus/omnivoice/callsystem"
	"github.com/agentplexus/voicepanel"
	"github.com/agentplexus/voicepanel/internal/client"
)

// Direction selects which calls are counted.
type Direction int

const (
	All Direction = iota
	Inbound
	Outbound
)

func (d Direction) String() string {
	switch d {
	case Inbound:
		return "inbound"
	case Outbound:
		return "outbound"
	default:
		return "all"
	}
}

// Lister lists calls. It is satisfied by the Twilio client.
type Lister interface {
	ListCalls(ctx context.Context, params *client.ListCallsParams) ([]client.Call, error)
}

// Query describes a count.
type Query struct {
	Number    string
	Start     time.Time
	End       time.Time
	Direction Direction
}

// Report is the result of Count.
type Report struct {
	Number    string
	Start     time.Time
	End       time.Time
	Direction Direction

	Inbound          int
	Outbound         int
	InboundByStatus  map[string]int
	OutboundByStatus map[string]int

	// Outcomes group the same calls by call state.
	InboundOutcomes  map[callsystem.CallStatus]int
	OutboundOutcomes map[callsystem.CallStatus]int
}

// Breakdown selects the per-direction detail Write prints.
type Breakdown int

const (
	NoBreakdown Breakdown = iota
	ByStatus
	ByOutcome
)

// StatusUnknown counts calls whose status Twilio left empty or that are not
// among the documented call statuses.
const StatusUnknown = "unknown"

var ErrEmptyRange = errors.New("calllog: end must be after start")

// Count lists the calls matching q and tallies them by direction and
// status. Inbound calls are the ones placed to q.Number, outbound the ones
// placed from it.
func Count(ctx context.Context, l Lister, q Query) (*Report, error) {
	if q.Number == "" {
		return nil, fmt.Errorf("calllog: number is required")
	}
	if q.End.Before(q.Start) {
		return nil, ErrEmptyRange
	}

	r := &Report{
		Number:           q.Number,
		Start:            q.Start.UTC(),
		End:              q.End.UTC(),
		Direction:        q.Direction,
		InboundByStatus:  make(map[string]int),
		OutboundByStatus: make(map[string]int),
		InboundOutcomes:  make(map[callsystem.CallStatus]int),
		OutboundOutcomes: make(map[callsystem.CallStatus]int),
	}

	if q.Direction != Outbound {
		calls, err := l.ListCalls(ctx, &client.ListCallsParams{
			To:              q.Number,
			StartTimeAfter:  r.Start,
			StartTimeBefore: r.End,
		})
		if err != nil {
			return nil, fmt.Errorf("list inbound calls: %w", err)
		}
		r.Inbound = len(calls)
		tally(r.InboundByStatus, r.InboundOutcomes, calls)
	}

	if q.Direction != Inbound {
		calls, err := l.ListCalls(ctx, &client.ListCallsParams{
			From:            q.Number,
			StartTimeAfter:  r.Start,
			StartTimeBefore: r.End,
		})
		if err != nil {
			return nil, fmt.Errorf("list outbound calls: %w", err)
		}
		r.Outbound = len(calls)
		tally(r.OutboundByStatus, r.OutboundOutcomes, calls)
	}

	return r, nil
}

// Total is the number of calls counted in the report's direction.
func (r *Report) Total() int {
	switch r.Direction {
	case Inbound:
		return r.Inbound
	case Outbound:
		return r.Outbound
	default:
		return r.Inbound + r.Outbound
	}
}

// Write prints the report, followed under each direction line by the
// counts b selects.
func (r *Report) Write(w io.Writer, b Breakdown) error {
	p := &printer{w: w}
	p.printf("Twilio call count\n")
	p.printf("Number: %s\n", r.Number)
	p.printf("Range (UTC): %s -> %s\n", isoformat(r.Start), isoformat(r.End))
	p.printf("Direction: %s\n", r.Direction)

	if r.Direction != Outbound {
		p.printf("Inbound (to %s): %d\n", r.Number, r.Inbound)
		p.breakdown(b, r.InboundByStatus, r.InboundOutcomes)
	}
	if r.Direction != Inbound {
		p.printf("Outbound (from %s): %d\n", r.Number, r.Outbound)
		p.breakdown(b, r.OutboundByStatus, r.OutboundOutcomes)
	}

	p.printf("Total: %d\n", r.Total())
	return p.err
}

// isoformat prints t with microseconds only when it has any.
func isoformat(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format("2006-01-02T15:04:05.000000")
	}
	return t.Format("2006-01-02T15:04:05")
}

func tally(statuses map[string]int, outcomes map[callsystem.CallStatus]int, calls []client.Call) {
	for _, c := range calls {
		status := knownStatus(c.Status)
		statuses[status]++
		if status == StatusUnknown {
			outcomes[callsystem.CallStatus(StatusUnknown)]++
			continue
		}
		outcomes[mapCallStatus(status)]++
	}
}

func knownStatus(status string) string {
	switch status {
	case voicepanel.CallStatusQueued,
		voicepanel.CallStatusRinging,
		voicepanel.CallStatusInProgress,
		voicepanel.CallStatusCompleted,
		voicepanel.CallStatusBusy,
		voicepanel.CallStatusFailed,
		voicepanel.CallStatusNoAnswer,
		voicepanel.CallStatusCanceled:
		return status
	default:
		return StatusUnknown
	}
}

// mapCallStatus maps a Twilio call status to a call state.
func mapCallStatus(status string) callsystem.CallStatus {
	switch status {
	case voicepanel.CallStatusQueued, voicepanel.CallStatusRinging:
		return callsystem.StatusRinging
	case voicepanel.CallStatusInProgress:
		return callsystem.StatusAnswered
	case voicepanel.CallStatusCompleted:
		return callsystem.StatusEnded
	case voicepanel.CallStatusBusy:
		return callsystem.StatusBusy
	case voicepanel.CallStatusNoAnswer:
		return callsystem.StatusNoAnswer
	case voicepanel.CallStatusFailed, voicepanel.CallStatusCanceled:
		return callsystem.StatusFailed
	default:
		return callsystem.StatusRinging
	}
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) breakdown(b Breakdown, statuses map[string]int, outcomes map[callsystem.CallStatus]int) {
	switch b {
	case ByStatus:
		p.counts(statuses)
	case ByOutcome:
		byName := make(map[string]int, len(outcomes))
		for k, v := range outcomes {
			byName[string(k)] = v
		}
		p.counts(byName)
	}
}

func (p *printer) counts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p.printf("  - %s: %d\n", k, counts[k])
	}
}
