package calllog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentplexus/omnivoice/callsystem"
	"github.com/agentplexus/voicepanel/internal/client"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	to   []client.Call
	from []client.Call
	err  error

	params []*client.ListCallsParams
}

func (l *fakeLister) ListCalls(ctx context.Context, p *client.ListCallsParams) ([]client.Call, error) {
	l.params = append(l.params, p)
	if l.err != nil {
		return nil, l.err
	}
	if p.To != "" {
		return l.to, nil
	}
	return l.from, nil
}

func newLister() *fakeLister {
	return &fakeLister{
		to: []client.Call{
			{SID: "CA1", Status: "completed"},
			{SID: "CA2", Status: "no-answer"},
			{SID: "CA3", Status: "completed"},
		},
		from: []client.Call{
			{SID: "CA4", Status: "busy"},
		},
	}
}

var (
	start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
)

func TestCount(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		inbound   int
		outbound  int
		total     int
		lists     int
	}{
		{name: "all", direction: All, inbound: 3, outbound: 1, total: 4, lists: 2},
		{name: "inbound_only", direction: Inbound, inbound: 3, total: 3, lists: 1},
		{name: "outbound_only", direction: Outbound, outbound: 1, total: 1, lists: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l := newLister()
			r, err := Count(context.Background(), l, Query{
				Number:    "+15550001111",
				Start:     start,
				End:       end,
				Direction: test.direction,
			})
			require.NoError(t, err)
			require.Equal(t, test.inbound, r.Inbound)
			require.Equal(t, test.outbound, r.Outbound)
			require.Equal(t, test.total, r.Total())
			require.Len(t, l.params, test.lists)

			for _, p := range l.params {
				require.Equal(t, start, p.StartTimeAfter)
				require.Equal(t, end, p.StartTimeBefore)
			}
		})
	}
}

func TestCountErrors(t *testing.T) {
	_, err := Count(context.Background(), newLister(), Query{Number: "+1555", Start: end, End: start})
	require.ErrorIs(t, err, ErrEmptyRange)

	_, err = Count(context.Background(), newLister(), Query{Start: start, End: end})
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = Count(context.Background(), &fakeLister{err: boom}, Query{Number: "+1555", Start: start, End: end})
	require.ErrorIs(t, err, boom)
}

func TestReportWrite(t *testing.T) {
	r, err := Count(context.Background(), newLister(), Query{
		Number: "+15550001111",
		Start:  start,
		End:    end,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, ByStatus))
	require.Equal(t, `Twilio call count
Number: +15550001111
Range (UTC): 2025-01-01T00:00:00 -> 2025-01-31T23:59:59
Direction: all
Inbound (to +15550001111): 3
  - completed: 2
  - no-answer: 1
Outbound (from +15550001111): 1
  - busy: 1
Total: 4
`, buf.String())

	r.Direction = Outbound
	buf.Reset()
	require.NoError(t, r.Write(&buf, NoBreakdown))
	require.Equal(t, `Twilio call count
Number: +15550001111
Range (UTC): 2025-01-01T00:00:00 -> 2025-01-31T23:59:59
Direction: outbound
Outbound (from +15550001111): 1
Total: 1
`, buf.String())
}

func TestReportWriteOutcomes(t *testing.T) {
	l := newLister()
	l.to = append(l.to,
		client.Call{SID: "CA5", Status: "queued"},
		client.Call{SID: "CA6", Status: "canceled"},
		client.Call{SID: "CA7", Status: "failed"},
	)
	r, err := Count(context.Background(), l, Query{
		Number:    "+15550001111",
		Start:     start,
		End:       end,
		Direction: Inbound,
	})
	require.NoError(t, err)
	require.Equal(t, map[callsystem.CallStatus]int{
		callsystem.StatusEnded:    2,
		callsystem.StatusNoAnswer: 1,
		callsystem.StatusRinging:  1,
		callsystem.StatusFailed:   2,
	}, r.InboundOutcomes)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, ByOutcome))
	require.Equal(t, `Twilio call count
Number: +15550001111
Range (UTC): 2025-01-01T00:00:00 -> 2025-01-31T23:59:59
Direction: inbound
Inbound (to +15550001111): 6
  - ended: 2
  - failed: 2
  - no_answer: 1
  - ringing: 1
Total: 6
`, buf.String())
}

func TestCountUnknownStatus(t *testing.T) {
	l := &fakeLister{to: []client.Call{
		{SID: "CA1", Status: ""},
		{SID: "CA2", Status: "on-hold"},
		{SID: "CA3", Status: "in-progress"},
	}}
	r, err := Count(context.Background(), l, Query{
		Number:    "+15550001111",
		Start:     start,
		End:       end,
		Direction: Inbound,
	})
	require.NoError(t, err)
	require.Equal(t, map[string]int{StatusUnknown: 2, "in-progress": 1}, r.InboundByStatus)
	require.Equal(t, map[callsystem.CallStatus]int{
		callsystem.CallStatus(StatusUnknown): 2,
		callsystem.StatusAnswered:            1,
	}, r.InboundOutcomes)
}

func TestReportWriteFraction(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		wanted string
	}{
		{
			name:   "whole_seconds",
			start:  start,
			end:    end,
			wanted: "Range (UTC): 2025-01-01T00:00:00 -> 2025-01-31T23:59:59\n",
		},
		{
			name:   "microseconds_are_printed",
			start:  start.Add(250 * time.Millisecond),
			end:    end.Add(1500 * time.Microsecond),
			wanted: "Range (UTC): 2025-01-01T00:00:00.250000 -> 2025-01-31T23:59:59.001500\n",
		},
		{
			name:   "below_a_microsecond_is_dropped",
			start:  start.Add(999 * time.Nanosecond),
			end:    end,
			wanted: "Range (UTC): 2025-01-01T00:00:00 -> 2025-01-31T23:59:59\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := &Report{Number: "+15550001111", Start: test.start, End: test.end}

			var buf bytes.Buffer
			require.NoError(t, r.Write(&buf, NoBreakdown))
			require.Contains(t, buf.String(), test.wanted)
		})
	}
}
