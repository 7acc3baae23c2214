// Package syncer moves events and derived status between the phone
// and the companion wrist device: a flat key-value payload for status,
// a last-writer-wins merge for event snapshots, and an HTTP client
// with retries for the push itself.
package syncer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

// Payload is the wire form of derived status: string keys, scalar
// string values. Timestamps travel as epoch seconds, counts as
// integers, the sleep state as a boolean flag.
type Payload map[string]string

const (
	keyTodayCount   = "today_count"
	keyExpectedLow  = "expected_low"
	keyExpectedHigh = "expected_high"
	keyLastPoop     = "last_poop"
	keyGapMinutes   = "gap_minutes"
	keyUrgency      = "urgency"
	keyMessage      = "message"
	keyIsSleeping   = "is_sleeping"
	keySleepSince   = "sleep_since"
	keyAwakeMinutes = "awake_minutes"
)

// EncodeStatus flattens the derived values for transport.
func EncodeStatus(st urgency.Status, sleep sleepstate.State) Payload {
	p := Payload{
		keyTodayCount:   strconv.Itoa(st.TodayCount),
		keyExpectedLow:  strconv.Itoa(st.Expected.Low),
		keyExpectedHigh: strconv.Itoa(st.Expected.High),
		keyUrgency:      st.Urgency.String(),
		keyMessage:      st.Message,
		keyIsSleeping:   strconv.FormatBool(sleep.Kind == sleepstate.Sleeping),
	}
	if !st.LastPoop.IsZero() {
		p[keyLastPoop] = strconv.FormatInt(st.LastPoop.Unix(), 10)
	}
	if st.GapKnown {
		p[keyGapMinutes] = strconv.Itoa(st.GapMinutes)
	}
	if !sleep.Since.IsZero() {
		p[keySleepSince] = strconv.FormatInt(sleep.Since.Unix(), 10)
	}
	if sleep.Kind == sleepstate.Awake {
		p[keyAwakeMinutes] = strconv.Itoa(sleep.AwakeMinutes)
	}
	return p
}

// Snapshot is the decoded form a widget or the watch renders from.
type Snapshot struct {
	TodayCount   int
	ExpectedLow  int
	ExpectedHigh int
	LastPoop     time.Time
	GapMinutes   int
	GapKnown     bool
	Urgency      string
	Message      string
	IsSleeping   bool
	SleepSince   time.Time
	AwakeMinutes int
}

// DecodeStatus parses a payload back into a snapshot. Unknown keys
// are ignored; missing optional keys decode as absent.
func DecodeStatus(p Payload) (Snapshot, error) {
	var s Snapshot
	var err error
	if s.TodayCount, err = intKey(p, keyTodayCount); err != nil {
		return Snapshot{}, err
	}
	if s.ExpectedLow, err = intKey(p, keyExpectedLow); err != nil {
		return Snapshot{}, err
	}
	if s.ExpectedHigh, err = intKey(p, keyExpectedHigh); err != nil {
		return Snapshot{}, err
	}
	s.Urgency = p[keyUrgency]
	s.Message = p[keyMessage]
	s.IsSleeping = p[keyIsSleeping] == "true"
	if raw, ok := p[keyLastPoop]; ok {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("bad %s: %w", keyLastPoop, err)
		}
		s.LastPoop = time.Unix(sec, 0)
	}
	if raw, ok := p[keyGapMinutes]; ok {
		gap, err := strconv.Atoi(raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("bad %s: %w", keyGapMinutes, err)
		}
		s.GapMinutes, s.GapKnown = gap, true
	}
	if raw, ok := p[keySleepSince]; ok {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("bad %s: %w", keySleepSince, err)
		}
		s.SleepSince = time.Unix(sec, 0)
	}
	if raw, ok := p[keyAwakeMinutes]; ok {
		if s.AwakeMinutes, err = strconv.Atoi(raw); err != nil {
			return Snapshot{}, fmt.Errorf("bad %s: %w", keyAwakeMinutes, err)
		}
	}
	return s, nil
}

func intKey(p Payload, key string) (int, error) {
	raw, ok := p[key]
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", key, err)
	}
	return v, nil
}
