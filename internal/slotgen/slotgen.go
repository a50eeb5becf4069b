// Package slotgen implements §4.4: pure functional expansion of a
// practitioner's weekly BaseSchedules into candidate appointment slots for
// a date range, with break windows excluded and slots tiled to an
// appointment type's duration. No side effects, no database access, no I/O
// — grounded on the teacher's internal/service/coverage.ResolveCoverage in
// spirit (a pure function over plain data, documented with its edge cases
// up front) though the domain here is slot tiling rather than staffing
// coverage.
package slotgen

import (
	"sort"
	"time"

	"github.com/johannesbremer/praxisplaner/internal/entity"
)

// PracticeLocation is the fixed IANA zone every date/weekday derivation in
// this package uses (§2: no general time-zone-aware arithmetic, Europe/
// Berlin only).
var PracticeLocation = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Europe/Berlin ships with every Go tzdata build; a missing zone
		// database here means the binary's runtime is misconfigured, not a
		// recoverable input error.
		panic("slotgen: " + err.Error())
	}
	return loc
}

// GenerateSlots expands one BaseSchedule into candidate slots, one per
// day in [from, to) on which the schedule's DayOfWeek falls, tiled into
// duration-sized pieces and with the schedule's BreakTimes carved out.
//
// Edge cases:
//   - A slot is only emitted if it fits entirely before the schedule's end
//     time; a tile that would run past EndTime is dropped rather than
//     truncated.
//   - A break window that does not align with a tile boundary still
//     excludes every tile it overlaps, even partially.
//   - duration <= 0 returns no slots.
func GenerateSlots(schedule *entity.BaseSchedule, duration time.Duration, from, to entity.Date) []entity.Slot {
	if duration <= 0 {
		return nil
	}

	var slots []entity.Slot
	for day := startOfDay(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		if int(day.Weekday()) != schedule.DayOfWeek {
			continue
		}
		slots = append(slots, tileDay(schedule, duration, day)...)
	}
	return slots
}

func startOfDay(d entity.Date) time.Time {
	t := d.In(PracticeLocation)
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, PracticeLocation)
}

func tileDay(schedule *entity.BaseSchedule, duration time.Duration, day time.Time) []entity.Slot {
	start, ok := parseClock(day, schedule.StartTime)
	if !ok {
		return nil
	}
	end, ok := parseClock(day, schedule.EndTime)
	if !ok || !end.After(start) {
		return nil
	}

	breaks := make([]interval, 0, len(schedule.BreakTimes))
	for _, b := range schedule.BreakTimes {
		bs, ok1 := parseClock(day, b.Start)
		be, ok2 := parseClock(day, b.End)
		if ok1 && ok2 && be.After(bs) {
			breaks = append(breaks, interval{bs, be})
		}
	}

	var slots []entity.Slot
	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		tileEnd := cur.Add(duration)
		if overlapsAny(cur, tileEnd, breaks) {
			continue
		}
		slots = append(slots, entity.Slot{
			PractitionerID:  schedule.PractitionerID,
			LocationID:      schedule.LocationID,
			StartTime:       cur,
			EndTime:         tileEnd,
			DurationMinutes: int(duration / time.Minute),
			Status:          entity.SlotAvailable,
		})
	}
	return slots
}

type interval struct{ start, end time.Time }

func overlapsAny(start, end time.Time, intervals []interval) bool {
	for _, iv := range intervals {
		if start.Before(iv.end) && iv.start.Before(end) {
			return true
		}
	}
	return false
}

// parseClock combines day's Y/M/D with an "HH:MM" clock string. A
// malformed clock string yields ok=false so callers can skip the schedule
// rather than panic on bad stored data.
func parseClock(day time.Time, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation("15:04", clock, PracticeLocation)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, PracticeLocation), true
}

// ListAvailableDates returns, in ascending order, every date in [from, to)
// on which at least one of the given schedules would produce a candidate
// slot for duration. It short-circuits per day: the first schedule that
// tiles successfully on a given day ends that day's check (§4.4's
// optional optimization — callers needing the actual slots still call
// GenerateSlots per schedule).
func ListAvailableDates(schedules []*entity.BaseSchedule, duration time.Duration, from, to entity.Date) []entity.Date {
	var dates []entity.Date
	for day := startOfDay(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, s := range schedules {
			if int(day.Weekday()) != s.DayOfWeek {
				continue
			}
			if len(tileDay(s, duration, day)) > 0 {
				dates = append(dates, day)
				break
			}
		}
	}
	return dates
}

// ListSlotsForDay returns every candidate slot produced by schedules on
// exactly one date, sorted by start time then practitioner id for
// deterministic output.
func ListSlotsForDay(schedules []*entity.BaseSchedule, duration time.Duration, date entity.Date) []entity.Slot {
	day := startOfDay(date)
	var slots []entity.Slot
	for _, s := range schedules {
		if int(day.Weekday()) != s.DayOfWeek {
			continue
		}
		slots = append(slots, tileDay(s, duration, day)...)
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].PractitionerID.String() < slots[j].PractitionerID.String()
	})
	return slots
}
