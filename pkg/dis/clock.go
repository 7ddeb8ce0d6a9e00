/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package dis

import (
	"math"
	"time"
)

// TicksPerHour is the DIS time unit count of one hour (IEEE 1278.1
// section 5.2.31.3).
const TicksPerHour = math.MaxInt32

// ClockTime is the DIS clock time record: hours since 00:00 UTC
// January 1 1970 and the packed timestamp within the hour.
type ClockTime struct {
	Hour         int32
	TimePastHour uint32
}

// TicksPastHour converts an instant to DIS ticks within the current
// hour, in [0, 2^31-2].
func TicksPastHour(t time.Time) uint32 {
	t = t.UTC()
	sec := float64(t.Unix()%3600) + float64(t.Nanosecond())/1e9
	return uint32(sec / 3600 * TicksPerHour)
}

// HoursSinceEpoch converts an instant to whole hours since the UNIX
// epoch.
func HoursSinceEpoch(t time.Time) int32 {
	return int32(t.Unix() / 3600)
}

// PackTimestamp appends the timestamp kind bit. The low bit is the
// kind flag (0 relative, 1 absolute); this implementation always emits
// relative timestamps.
func PackTimestamp(ticks uint32) uint32 {
	return ticks << 1
}

// UnpackTimestamp discards the kind bit.
func UnpackTimestamp(ts uint32) uint32 {
	return ts >> 1
}

// Timestamp returns the packed header timestamp for an instant.
func Timestamp(t time.Time) uint32 {
	return PackTimestamp(TicksPastHour(t))
}

// ClockTimeAt returns the DIS clock time for an instant.
func ClockTimeAt(t time.Time) ClockTime {
	return ClockTime{
		Hour:         HoursSinceEpoch(t),
		TimePastHour: Timestamp(t),
	}
}

// Now returns the DIS clock time for the current instant. Computed
// fresh on every call, never cached.
func Now() ClockTime {
	return ClockTimeAt(time.Now())
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// LocalClockTime converts a zone-naive ISO datetime in local time to
// DIS UTC clock time. The UTC offset is taken from the zone at call
// time, so datetimes on the far side of a daylight-saving transition
// are shifted by the current offset, not the offset in force then.
func LocalClockTime(datetime string) (ClockTime, error) {
	var parsed time.Time
	var err error
	for _, layout := range localLayouts {
		parsed, err = time.Parse(layout, datetime)
		if err == nil {
			break
		}
	}
	if err != nil {
		return ClockTime{}, ErrBadDatetime{Value: datetime}
	}
	_, offset := time.Now().Zone()
	return ClockTimeAt(parsed.Add(-time.Duration(offset) * time.Second)), nil
}
