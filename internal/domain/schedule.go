package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Weekday день недели в порядке time.Weekday (Sunday = 0)
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysInWeek количество дней в шаблоне
const DaysInWeek = 7

var weekdayNames = [DaysInWeek]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// AllWeekdays все дни недели по порядку
var AllWeekdays = [DaysInWeek]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf день недели для даты
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// ParseWeekday разбирает имя дня ("monday", "Monday")
func ParseWeekday(name string) (Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), true
		}
	}
	return 0, false
}

// String имя дня в нижнем регистре
func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return "unknown"
	}
	return weekdayNames[d]
}

// IsValid returns true for Sunday..Saturday
func (d Weekday) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

// DaySchedule рабочее окно мастера в конкретный день недели
type DaySchedule struct {
	Enabled   bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ScheduleTemplate недельный шаблон доступности мастера
type ScheduleTemplate struct {
	ProviderID          string
	Days                [DaysInWeek]DaySchedule
	SlotDurationMinutes int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Day расписание на день недели
func (t *ScheduleTemplate) Day(d Weekday) DaySchedule {
	if !d.IsValid() {
		return DaySchedule{}
	}
	return t.Days[d]
}

// DayFor расписание на день недели указанной даты
func (t *ScheduleTemplate) DayFor(date time.Time) DaySchedule {
	return t.Day(WeekdayOf(date))
}

// IsEnabledOn returns true if the provider works on the weekday of date
func (t *ScheduleTemplate) IsEnabledOn(date time.Time) bool {
	return t.DayFor(date).Enabled
}

// HasEnabledDays returns true if at least one day is enabled
func (t *ScheduleTemplate) HasEnabledDays() bool {
	for _, d := range t.Days {
		if d.Enabled {
			return true
		}
	}
	return false
}
